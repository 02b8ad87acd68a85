package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "dg", cmd.Use)
	assert.Equal(t, "Manage OpenShift clusters and Db2 Data Gate installations", cmd.Short)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"cluster",
		"adm",
		"fyre",
		"ibmcloud",
		"version",
		"completion",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), len(expectedSubcommands))
}

func TestRoot_PersistentFlags(t *testing.T) {
	cmd := Root()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("metrics-file"))
}

func TestRoot_VersionFlag(t *testing.T) {
	origVersion := version
	defer func() { version = origVersion }()
	version = "1.2.3"

	cmd := Root()
	assert.Equal(t, "1.2.3", cmd.Version)
}

func TestMetricsFile(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"--metrics-file", "/tmp/dg.prom", "version"})

	var got string
	for _, sub := range root.Commands() {
		if sub.Name() == "version" {
			sub.Run = func(cmd *cobra.Command, _ []string) {
				got = metricsFile(cmd)
			}
		}
	}
	require.NoError(t, root.Execute())
	assert.Equal(t, "/tmp/dg.prom", got)
}

func TestHideNuclearCommands(t *testing.T) {
	cmd := Root()
	HideNuclearCommands(cmd)

	rm, _, err := cmd.Find([]string{"cluster", "rm"})
	require.NoError(t, err)
	assert.True(t, rm.Hidden)

	ls, _, err := cmd.Find([]string{"cluster", "ls"})
	require.NoError(t, err)
	assert.False(t, ls.Hidden)
}

func findCommand(t *testing.T, path ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := Root().Find(path)
	require.NoError(t, err)
	require.Equal(t, path[len(path)-1], cmd.Name())
	return cmd
}
