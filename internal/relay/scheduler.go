package relay

import "sync"

// Scheduler assigns gapless playback start times to audio buffers that
// arrive asynchronously. Each buffer starts at the later of "now" and
// the end of the previously scheduled buffer, so sequential buffers
// never overlap and playback stays back-to-back once it falls behind
// realtime. Buffers are ordered strictly by arrival; the transport is
// trusted to preserve message order.
type Scheduler struct {
	mu   sync.Mutex
	next float64
}

// Schedule returns the start time for a buffer of the given duration
// and advances the cursor past it. Times are seconds on the caller's
// clock.
func (s *Scheduler) Schedule(now, duration float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := now
	if s.next > start {
		start = s.next
	}
	s.next = start + duration
	return start
}

// Reset clears the cursor. Buffers already handed out but not yet
// started are abandoned by the playback side.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
}

// Duration is the playback length in seconds of n samples at the
// playback rate.
func Duration(n int) float64 {
	return float64(n) / float64(PlaybackSampleRate)
}
