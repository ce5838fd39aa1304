package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, Defaults, *cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NEXGEN_SEED", "7")
	t.Setenv("NEXGEN_DATA_DIR", "/data")

	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "/data", cfg.DataDir)
}

func TestLoadFlagBeatsEnv(t *testing.T) {
	t.Setenv("NEXGEN_SEED", "7")

	cfg, err := Load(flags(t, "--seed=9", "--model-path=out/m.bin"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, "out/m.bin", cfg.ModelPath)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("test_ratio: 0.3\nlisten_addr: \":9000\"\ntrain_timeout: 2m\n"), 0o644))

	cfg, err := Load(flags(t, "--config="+path))
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.TestRatio)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 2*time.Minute, cfg.TrainTimeout)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(flags(t, "--config="+filepath.Join(t.TempDir(), "nope.yaml")))
		assert.Error(t, err)
	})
	t.Run("test ratio out of range", func(t *testing.T) {
		t.Setenv("NEXGEN_TEST_RATIO", "1.5")
		_, err := Load(nil)
		assert.Error(t, err)
	})
}
