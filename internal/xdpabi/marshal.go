package xdpabi

import "encoding/binary"

// MarshalError reports a fixed-size decode failure against ring memory.
type MarshalError string

func (e MarshalError) Error() string { return string(e) }

const ErrInsufficientData MarshalError = "insufficient data for ring entry"

// PutFillEntry/GetFillEntry write and read a bare 64-bit little-endian
// frame offset, matching the real AF_XDP ring entry layout shared by
// FILL and COMPLETION; both rings use these two helpers.
func PutFillEntry(dst []byte, offset uint64) {
	binary.LittleEndian.PutUint64(dst[0:8], offset)
}

func GetFillEntry(src []byte) uint64 {
	return binary.LittleEndian.Uint64(src[0:8])
}

// DescTxSize is the on-the-wire size of an RX/TX ring entry.
const DescTxSize = 16

// PutDescTx encodes a RX/TX ring entry ({offset, length, flags}).
func PutDescTx(dst []byte, d DescTx) error {
	if len(dst) < DescTxSize {
		return ErrInsufficientData
	}
	binary.LittleEndian.PutUint64(dst[0:8], d.Addr)
	binary.LittleEndian.PutUint32(dst[8:12], d.Len)
	binary.LittleEndian.PutUint32(dst[12:16], d.Options)
	return nil
}

// GetDescTx decodes a RX/TX ring entry.
func GetDescTx(src []byte) (DescTx, error) {
	if len(src) < DescTxSize {
		return DescTx{}, ErrInsufficientData
	}
	return DescTx{
		Addr:    binary.LittleEndian.Uint64(src[0:8]),
		Len:     binary.LittleEndian.Uint32(src[8:12]),
		Options: binary.LittleEndian.Uint32(src[12:16]),
	}, nil
}
