package main

import (
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func testCommand() (*cobra.Command, *string, *bool, *int) {
	var (
		output  string
		parquet bool
		size    int
	)
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&output, "output", "itglue_passwords", "")
	cmd.Flags().BoolVar(&parquet, "parquet", false, "")
	cmd.Flags().IntVar(&size, "page-size", 50, "")
	return cmd, &output, &parquet, &size
}

func TestBindFlags_ConfigFillsUnsetFlags(t *testing.T) {
	var parsed YamlConfig
	require.NoError(t, yaml.UnmarshalStrict([]byte(`
output: ~/exports/pw
parquet: true
page-size: 200
chrome-path: /usr/bin/chromium
`), &parsed))

	cmd, output, parquet, size := testCommand()
	require.NoError(t, bindFlags(cmd, parsed))

	assert.Equal(t, "~/exports/pw", *output)
	assert.True(t, *parquet)
	assert.Equal(t, 200, *size)
}

func TestBindFlags_CommandLineWins(t *testing.T) {
	parsed := YamlConfig{Output: "from-config", PageSize: 200}

	cmd, output, _, size := testCommand()
	require.NoError(t, cmd.Flags().Set("output", "from-flag"))
	require.NoError(t, bindFlags(cmd, parsed))

	assert.Equal(t, "from-flag", *output)
	assert.Equal(t, 200, *size)
}

func TestYamlConfig_RejectsUnknownKeys(t *testing.T) {
	var parsed YamlConfig
	err := yaml.UnmarshalStrict([]byte("api-key: nope\n"), &parsed)
	require.Error(t, err)
}

func TestDescribeBuild(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	assert.Equal(t, "rev-abc123-dirty", describeBuild(info))

	assert.Equal(t, "devel", describeBuild(&debug.BuildInfo{}))
	assert.Equal(t, "v1.2.0", describeBuild(&debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}}))
}
