package config

import (
	"os"
	"path/filepath"
	"testing"

	"emgcheck/internal/explorer"
	"emgcheck/internal/invariant"
	"emgcheck/internal/scenario"
	"emgcheck/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
workers: 2
log_level: debug
explorer:
  mode: random
  samples: 50
  seed: 7
store:
  path: /tmp/emgcheck.db
presets:
  - name: i2c_driver
    subsystem: i2c_driver
    setup: deferred
    registration_can_fail: true
    max_cycles: 3
    callback: probe-int
    predicate: nonnegative
    monitors: [probe-underflow]
  - name: i2c_leak
    flavor: region
    fault: skip-teardown
    expect: [EMG-203]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emgcheck.yaml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_Defaults(t *testing.T) {
	c, err := ReadConfig("")
	require.Nil(t, err)
	assert.Equal(t, explorer.DefaultOptions(), c.Explorer)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.Store.Path)
	assert.Empty(t, c.Presets)
}

func Test_ReadConfig(t *testing.T) {
	c, err := ReadConfig(writeConfig(t, sample))
	require.Nil(t, err)

	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, explorer.ModeRandom, c.Explorer.Mode)
	assert.Equal(t, 50, c.Explorer.Samples)
	assert.Equal(t, int64(7), c.Explorer.Seed)
	// untouched keys keep their defaults
	assert.Equal(t, "dfs", c.Explorer.Strategy)
	assert.Equal(t, "/tmp/emgcheck.db", c.Store.Path)

	require.Equal(t, 2, len(c.Presets))
	p := c.Presets[0]
	assert.Equal(t, "i2c_driver", p.Name)
	assert.Equal(t, scenario.SetupDeferred, p.Setup)
	assert.Equal(t, scenario.CallbackProbeInt, p.Callback)
	assert.Equal(t, tracker.Nonnegative, p.Predicate)
	assert.True(t, p.RegistrationCanFail)
	assert.Equal(t, 3, p.MaxCycles)
	assert.Equal(t, []string{"probe-underflow"}, p.Monitors)
	assert.Equal(t, []invariant.Code{invariant.RegionLeaked}, c.Presets[1].Expect)

	catalog, err := c.Catalog()
	require.Nil(t, err)
	assert.Contains(t, catalog.Names(), "i2c_driver")
	assert.Contains(t, catalog.Names(), "tty")
}

func Test_EnvOverride(t *testing.T) {
	t.Setenv("EMGCHECK_EXPLORER_MAX_DEPTH", "9")
	c, err := ReadConfig("")
	require.Nil(t, err)
	assert.Equal(t, 9, c.Explorer.MaxDepth)
}

func Test_InvalidConfig(t *testing.T) {
	_, err := ReadConfig(writeConfig(t, "explorer:\n  mode: symbolic\n"))
	assert.NotNil(t, err)

	_, err = ReadConfig(writeConfig(t, "log_level: loud\n"))
	assert.NotNil(t, err)

	_, err = ReadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}
