package nfs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// LocalRunner runs commands with sh on the local host.
type LocalRunner struct{}

// Execute runs command and returns its combined output.
func (LocalRunner) Execute(ctx context.Context, command string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("local command failed: %w: %s", err, bytes.TrimSpace(out.Bytes()))
	}
	return out.String(), nil
}
