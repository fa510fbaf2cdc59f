package termmatch

import "sync"

// Stream is a lazy, finite sequence of substitutions produced by a single
// matching call. The producing search runs in its own goroutine and
// suspends between solutions; a consumer may stop early by calling Close,
// which cleanly abandons the remaining search without leaking the producer.
//
// A Stream is not restartable after exhaustion. It is safe for one consumer
// goroutine; independent Match calls produce independent streams.
type Stream struct {
	ch   chan *Substitution
	done chan struct{}
	once sync.Once
}

func newStream() *Stream {
	return &Stream{
		ch:   make(chan *Substitution),
		done: make(chan struct{}),
	}
}

// emit hands a substitution to the consumer. It returns false when the
// consumer has closed the stream, signalling the search to unwind.
func (s *Stream) emit(sub *Substitution) bool {
	select {
	case s.ch <- sub:
		return true
	case <-s.done:
		return false
	}
}

// finish marks the producer side as exhausted. Producer only.
func (s *Stream) finish() {
	close(s.ch)
}

// Next returns the next substitution. ok is false once the stream is
// exhausted or closed.
func (s *Stream) Next() (*Substitution, bool) {
	sub, ok := <-s.ch
	return sub, ok
}

// Take retrieves up to n substitutions from the stream. The second result
// reports whether more substitutions may be available.
func (s *Stream) Take(n int) ([]*Substitution, bool) {
	var results []*Substitution
	for i := 0; i < n; i++ {
		sub, ok := s.Next()
		if !ok {
			return results, false
		}
		results = append(results, sub)
	}
	return results, true
}

// All drains the stream and returns every remaining substitution.
func (s *Stream) All() []*Substitution {
	var results []*Substitution
	for {
		sub, ok := s.Next()
		if !ok {
			return results
		}
		results = append(results, sub)
	}
}

// Close abandons the remaining search. It is safe to call multiple times
// and after exhaustion. After Close, pending and future Next calls return
// ok == false once the producer has unwound.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}
