package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozystack/rlyehctl/pkg/commands"
)

// buildCommandHierarchy creates a cobra command hierarchy from a path like
// ["rlyehctl", "completion", "bash"] and returns the leaf command.
func buildCommandHierarchy(path []string) *cobra.Command {
	if len(path) == 0 {
		return nil
	}

	root := &cobra.Command{Use: path[0]}
	parent := root

	for _, name := range path[1:] {
		child := &cobra.Command{Use: name}
		parent.AddCommand(child)
		parent = child
	}

	return parent
}

func TestIsCommandOrParent(t *testing.T) {
	tests := []struct {
		name     string
		cmdPath  []string
		names    []string
		expected bool
	}{
		{
			name:     "direct completion command",
			cmdPath:  []string{"rlyehctl", "completion"},
			names:    []string{"simulate", "completion"},
			expected: true,
		},
		{
			name:     "completion bash subcommand",
			cmdPath:  []string{"rlyehctl", "completion", "bash"},
			names:    []string{"simulate", "completion"},
			expected: true,
		},
		{
			name:     "nested command matches its parent",
			cmdPath:  []string{"rlyehctl", "solution", "accept"},
			names:    []string{"solution"},
			expected: true,
		},
		{
			name:     "status command should not match",
			cmdPath:  []string{"rlyehctl", "status"},
			names:    []string{"simulate", "completion"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := buildCommandHierarchy(tt.cmdPath)
			assert.Equal(t, tt.expected, isCommandOrParent(leaf, tt.names...))
		})
	}
}

func TestSkipConfigCommands(t *testing.T) {
	tests := []struct {
		name     string
		cmdPath  []string
		expected bool // true = should skip config loading
	}{
		{"completion command", []string{"rlyehctl", "completion"}, true},
		{"completion bash", []string{"rlyehctl", "completion", "bash"}, true},
		{"completion zsh", []string{"rlyehctl", "completion", "zsh"}, true},
		{"__complete (cobra internal for shell autocompletion)", []string{"rlyehctl", "__complete"}, true},
		{"simulate command", []string{"rlyehctl", "simulate"}, true},
		{"watch command should load config", []string{"rlyehctl", "watch"}, false},
		{"services setup should load config", []string{"rlyehctl", "services", "setup"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := buildCommandHierarchy(tt.cmdPath)
			assert.Equal(t, tt.expected, isCommandOrParent(leaf, skipConfigCommands...),
				"skipConfigCommands = %v", skipConfigCommands)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, loadConfig(filepath.Join(dir, "missing.yaml")))

	path := filepath.Join(dir, commands.ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(`globalOptions:
  endpoint: http://appliance:1337
pollOptions:
  interval: 2s
clientOptions:
  rateLimit: 5
logOptions:
  level: debug
`), 0o600))

	require.NoError(t, loadConfig(path))
	require.NoError(t, commands.ApplyConfigDefaults())

	assert.Equal(t, "http://appliance:1337", commands.Config.GlobalOptions.Endpoint)
	assert.Equal(t, 2*time.Second, commands.Config.PollOptions.IntervalDuration)
	assert.Equal(t, 5.0, commands.Config.ClientOptions.RateLimit)
	assert.Equal(t, 1, commands.Config.ClientOptions.Burst)
	assert.Equal(t, "debug", commands.Config.LogOptions.Level)

	require.NoError(t, os.WriteFile(path, []byte("globalOptions: [\n"), 0o600))
	assert.ErrorContains(t, loadConfig(path), "error unmarshalling configuration")
}
