package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDump(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "toml", args: []string{"config", "dump", "--config", "../etc/"}, want: `Title = "HabitAdmin"`},
		{name: "json", args: []string{"config", "dump", "--json", "--config", "../etc/"}, want: `"Title": "HabitAdmin"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			dumpJSON = false
			rootCmd.SetOut(&out)
			rootCmd.SetArgs(tt.args)

			require.NoError(t, rootCmd.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"start", "generate", "seed-admin", "config"} {
		assert.True(t, names[want], want)
	}
}
