package adapter

import "github.com/xskio/xskio/internal/iface"

// collectSink is a test double recording every payload delivered to
// Receive, copying out of UMEM since the backing frame gets reused
// once housekeep re-enqueues it onto FILL.
type collectSink struct {
	got [][]byte
	cap int // if >0, only accept up to cap buffers per call (simulate a slow consumer)
}

func (s *collectSink) Receive(batch []iface.Buffer) (int, error) {
	n := len(batch)
	if s.cap > 0 && n > s.cap {
		n = s.cap
	}
	for i := 0; i < n; i++ {
		s.got = append(s.got, append([]byte(nil), batch[i].Data...))
	}
	return n, nil
}
