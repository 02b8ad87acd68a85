package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/ibm/data-gate-cli/internal/config"
)

// promptCredentials asks for the given credentials, prefilled with current
// values - can be replaced in tests.
var promptCredentials = func(specs []config.CredentialSpec, current map[string]string) (map[string]string, error) {
	values := make([]string, len(specs))
	fields := make([]huh.Field, 0, len(specs))
	for i, spec := range specs {
		values[i] = current[spec.Name]
		input := huh.NewInput().
			Title(spec.Description).
			Value(&values[i])
		if spec.Secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		fields = append(fields, input)
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, fmt.Errorf("credential input cancelled")
		}
		return nil, err
	}

	result := make(map[string]string, len(specs))
	for i, spec := range specs {
		result[spec.Name] = values[i]
	}
	return result, nil
}

// StoreCredentials stores credentials in the configuration file. Empty
// values are ignored unless interactive, where clearing a field removes
// the credential.
func StoreCredentials(_ context.Context, values map[string]string, interactive bool) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	if interactive {
		values, err = promptCredentials(config.KnownCredentials, cfg.Credentials)
		if err != nil {
			return err
		}
	}

	var stored []string
	for _, spec := range config.KnownCredentials {
		value, ok := values[spec.Name]
		if !ok || (value == "" && !interactive) {
			continue
		}
		cfg.SetCredential(spec.Name, value)
		stored = append(stored, spec.Name)
	}
	if len(stored) == 0 {
		fmt.Fprintln(stdout, dimStyle.Render("No credentials given."))
		return nil
	}

	if err := saveConfig(cfg, path); err != nil {
		return err
	}
	printSuccess("Stored credentials in %s", path)
	for _, name := range stored {
		fmt.Fprintf(stdout, "  %s\n", dimStyle.Render(name))
	}
	return nil
}

// ConfigSet stores a boolean setting.
func ConfigSet(_ context.Context, key, value string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.SetSetting(key, value); err != nil {
		return err
	}
	if err := saveConfig(cfg, path); err != nil {
		return err
	}
	printSuccess("%s = %t", key, cfg.Setting(key))
	return nil
}

// FyreLogout removes the stored FYRE credentials.
func FyreLogout(_ context.Context) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.DeleteCredentials(config.FyreUserName, config.FyreAPIKey)
	if err := saveConfig(cfg, path); err != nil {
		return err
	}
	printSuccess("Removed FYRE credentials")
	return nil
}

// NuclearCommandsHidden reports whether destructive commands are hidden. An
// unreadable configuration file shows them.
func NuclearCommandsHidden() bool {
	cfg, _, err := loadConfig()
	if err != nil {
		return false
	}
	return cfg.Setting(config.SettingNuclearCommandsHidden)
}
