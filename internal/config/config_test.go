package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoPathOrEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, uint32(2048), cfg.FrameSize)
	require.Equal(t, uint32(64), cfg.BatchCnt)
}

func TestLoadFromFile(t *testing.T) {
	tmp, err := os.CreateTemp("", "xskio_config_test_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())

	_, err = tmp.WriteString("frame_sz: 4096\nbatch_cnt: 32\nifname: eth0\nqueue: 2\n")
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	cfg, err := Load(tmp.Name())
	require.NoError(t, err)
	require.Equal(t, uint32(4096), cfg.FrameSize)
	require.Equal(t, uint32(32), cfg.BatchCnt)
	require.Equal(t, "eth0", cfg.Ifname)
	require.Equal(t, uint32(2), cfg.Queue)
}

func TestLoadFromEnvironmentOverridesFile(t *testing.T) {
	tmp, err := os.CreateTemp("", "xskio_config_env_test_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())

	_, err = tmp.WriteString("batch_cnt: 32\n")
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	os.Setenv("XSKIO_BATCH_CNT", "16")
	defer os.Unsetenv("XSKIO_BATCH_CNT")

	cfg, err := Load(tmp.Name())
	require.NoError(t, err)
	require.Equal(t, uint32(16), cfg.BatchCnt, "environment must take precedence over the config file")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	os.Setenv("XSKIO_FRAME_SZ", "100")
	defer os.Unsetenv("XSKIO_FRAME_SZ")

	_, err := Load("")
	require.Error(t, err, "frame_sz=100 is not a power of two")
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	require.Error(t, err)
}
