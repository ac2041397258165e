package cliutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigRegistersSubcommands(t *testing.T) {
	cfg := InitializeConfig()
	names := map[string]bool{}
	for _, c := range cfg.Root.Commands() {
		names[c.Use] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["met"])
	assert.True(t, names["net"])
}

func TestRunSimulationFailsWithoutConfigFlag(t *testing.T) {
	cfg := InitializeConfig()
	err := RunSimulation(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestRunMetSummaryFailsWithoutConfigFlag(t *testing.T) {
	cfg := InitializeConfig()
	err := RunMetSummary(cfg)
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestNetCommandReturnsNotImplemented(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Root.SetArgs([]string{"net"})
	err := cfg.Root.Execute()
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRunMetSummaryReportsFieldStatistics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.init")
	require.NoError(t, os.WriteFile(path, []byte("lat=3.0\nplantdens=136\nnumlayers=1\n"), 0o644))

	cfg := InitializeConfig()
	cfg.Set("config", path)
	cfg.Set("met.basedir", dir)

	err := RunMetSummary(cfg)
	require.NoError(t, err)
}
