package main

import (
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolvedFlags struct {
	command string
	port    string
	envFile string
}

// execute runs the root command with args, replacing the action of the
// command they select with one that records the resolved flag values.
func execute(t *testing.T, args ...string) (resolvedFlags, error) {
	t.Helper()

	root := newRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	target, _, err := root.Find(args)
	require.NoError(t, err)

	var got resolvedFlags
	target.RunE = func(cmd *cobra.Command, _ []string) error {
		got = resolvedFlags{
			command: cmd.CommandPath(),
			port:    rootFlags[portFlag].GetString(),
			envFile: rootFlags[envFileFlag].GetString(),
		}
		return nil
	}

	root.SetArgs(args)
	return got, root.Execute()
}

func TestFlagsReachEveryCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want resolvedFlags
	}{
		{
			name: "bare root with port",
			args: []string{"--port", "8080"},
			want: resolvedFlags{command: "library-api", port: "8080", envFile: ".env"},
		},
		{
			name: "serve with port and env file",
			args: []string{"serve", "--port", "9090", "--env-file", "prod.env"},
			want: resolvedFlags{command: "library-api serve", port: "9090", envFile: "prod.env"},
		},
		{
			name: "flags before the subcommand",
			args: []string{"--env-file", "x.env", "serve"},
			want: resolvedFlags{command: "library-api serve", envFile: "x.env"},
		},
		{
			name: "migrate up with env file",
			args: []string{"migrate", "up", "--env-file", "x.env"},
			want: resolvedFlags{command: "library-api migrate up", envFile: "x.env"},
		},
		{
			name: "migrate status defaults",
			args: []string{"migrate", "status"},
			want: resolvedFlags{command: "library-api migrate status", envFile: ".env"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownFlagIsRejected(t *testing.T) {
	_, err := execute(t, "serve", "--listen", ":80")
	assert.ErrorContains(t, err, "unknown flag")
}

func TestMigrateRejectsArguments(t *testing.T) {
	_, err := execute(t, "migrate", "version", "extra")
	assert.Error(t, err)
}
