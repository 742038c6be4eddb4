package xskio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateRejectsZeroBatchCnt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchCnt = 0
	require.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsZeroArenaSizing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurStreams = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxInFlightPkts = 0
	require.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsNonPow2Depth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TxDepth = 100
	require.Error(t, cfg.Validate())
}

func TestConfigPartitionsDoNotOverlap(t *testing.T) {
	cfg := DefaultConfig()
	rxEnd := cfg.rxOff() + uint64(cfg.RxDepth)*uint64(cfg.FrameSize)
	require.Equal(t, cfg.txOff(), rxEnd)
	require.Equal(t, cfg.umemSize(), cfg.txOff()+uint64(cfg.TxDepth)*uint64(cfg.FrameSize))
}
