package xdpabi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestStructSizes(t *testing.T) {
	tests := []struct {
		name     string
		size     uintptr
		expected int
	}{
		{"DescTx", unsafe.Sizeof(DescTx{}), 16},
		{"UmemReg", unsafe.Sizeof(UmemReg{}), 24},
		{"RingOffset", unsafe.Sizeof(RingOffset{}), 32},
		{"MmapOffsets", unsafe.Sizeof(MmapOffsets{}), 128},
		{"SockaddrXdp", unsafe.Sizeof(SockaddrXdp{}), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, int(tt.size))
		})
	}
}

func TestFillEntryRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	PutFillEntry(buf, 0x1122334455667788)
	require.Equal(t, uint64(0x1122334455667788), GetFillEntry(buf))
}

func TestDescTxRoundTrip(t *testing.T) {
	d := DescTx{Addr: 4096, Len: 128, Options: RingFlagNeedWakeup}
	buf := make([]byte, DescTxSize)
	require.NoError(t, PutDescTx(buf, d))

	got, err := GetDescTx(buf)
	require.NoError(t, err)
	require.Equal(t, d, got)
}

func TestDescTxInsufficientData(t *testing.T) {
	short := make([]byte, 4)
	require.ErrorIs(t, PutDescTx(short, DescTx{}), ErrInsufficientData)

	_, err := GetDescTx(short)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestMagicConstant(t *testing.T) {
	require.Equal(t, uint64(0xf17eda2c3778736b), Magic)
}
