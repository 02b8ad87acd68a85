package installer

import (
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// controllerURLPath locates the platform URL in Schematics output values.
const controllerURLPath = ".[0].output_values[0].resource_cloud.value.resource_controller_url"

var controllerURLQuery = mustCompile(controllerURLPath)

func mustCompile(src string) *gojq.Code {
	q, err := gojq.Parse(src)
	if err != nil {
		panic(fmt.Sprintf("parse %q: %v", src, err))
	}
	code, err := gojq.Compile(q)
	if err != nil {
		panic(fmt.Sprintf("compile %q: %v", src, err))
	}
	return code
}

// ExtractControllerURL returns the platform URL from decoded output values.
func ExtractControllerURL(workspaceID string, values any) (string, error) {
	iter := controllerURLQuery.Run(values)
	v, ok := iter.Next()
	if !ok {
		return "", &OutputExtractionError{WorkspaceID: workspaceID, Values: values, Err: errors.New("query produced no value")}
	}
	if err, isErr := v.(error); isErr {
		return "", &OutputExtractionError{WorkspaceID: workspaceID, Values: values, Err: err}
	}
	url, isString := v.(string)
	if !isString || url == "" {
		return "", &OutputExtractionError{
			WorkspaceID: workspaceID,
			Values:      values,
			Err:         fmt.Errorf("%s is %v, not a URL", controllerURLPath, v),
		}
	}
	return url, nil
}
