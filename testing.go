package xskio

import "sync"

// MockSink is a test double implementing Sink, recording every batch
// handed to it and optionally capping how many buffers it accepts per
// call. A small stateful fake with call-count tracking rather than a
// mocking-framework generated stub.
type MockSink struct {
	mu sync.Mutex

	accepted  [][]byte // payload copies, in delivery order
	callCount int
	acceptMax int // 0 means "accept everything"
	err       error
}

// NewMockSink builds a MockSink that accepts every buffer offered to
// it. Use SetAcceptMax to simulate a short-accepting consumer.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// SetAcceptMax caps how many buffers a single Receive call accepts; 0
// restores unlimited acceptance.
func (m *MockSink) SetAcceptMax(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acceptMax = n
}

// SetError makes every subsequent Receive call return err immediately
// without consuming any buffers.
func (m *MockSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Receive implements Sink.
func (m *MockSink) Receive(batch []Buffer) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	if m.err != nil {
		return 0, m.err
	}

	limit := len(batch)
	if m.acceptMax > 0 && m.acceptMax < limit {
		limit = m.acceptMax
	}
	for _, buf := range batch[:limit] {
		m.accepted = append(m.accepted, append([]byte(nil), buf.Data...))
	}
	return limit, nil
}

// Accepted returns a copy of every payload accepted so far, in order.
func (m *MockSink) Accepted() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.accepted))
	copy(out, m.accepted)
	return out
}

// CallCount returns how many times Receive has been called.
func (m *MockSink) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears recorded state without touching acceptMax/err.
func (m *MockSink) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted = nil
	m.callCount = 0
}

var _ Sink = (*MockSink)(nil)
