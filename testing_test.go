package xskio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockSinkAcceptsEverythingByDefault(t *testing.T) {
	s := NewMockSink()
	n, err := s.Receive([]Buffer{{Data: []byte("a")}, {Data: []byte("b")}})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, s.Accepted())
	require.Equal(t, 1, s.CallCount())
}

func TestMockSinkAcceptMax(t *testing.T) {
	s := NewMockSink()
	s.SetAcceptMax(1)
	n, err := s.Receive([]Buffer{{Data: []byte("a")}, {Data: []byte("b")}})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, [][]byte{[]byte("a")}, s.Accepted())
}

func TestMockSinkError(t *testing.T) {
	s := NewMockSink()
	boom := errors.New("boom")
	s.SetError(boom)
	n, err := s.Receive([]Buffer{{Data: []byte("a")}})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, n)
}

func TestMockSinkReset(t *testing.T) {
	s := NewMockSink()
	_, _ = s.Receive([]Buffer{{Data: []byte("a")}})
	s.Reset()
	require.Empty(t, s.Accepted())
	require.Equal(t, 0, s.CallCount())
}
