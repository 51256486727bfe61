package instruction

import (
	"sort"
)

// Stream hands instructions to the game loop one tick at a time.
type Stream interface {
	// Push queues an instruction for the current tick.
	Push(in Instruction)
	// PushAt queues an instruction for a later tick.
	PushAt(tick uint64, in Instruction)
	// Next returns the next instruction due at or before tick.
	Next(tick uint64) (Envelope, bool)
	// Live reports whether rule engines should generate new instructions.
	Live() bool
	// Done reports whether a replay has run out.
	Done(tick uint64) bool
	// Close flushes any recording.
	Close() error
}

type pending struct {
	tick uint64
	seq  uint64
	in   Instruction
}

// PlayStream is the live stream. Instructions run in (tick, push order) and
// each one is recorded with the tick it actually executed on.
type PlayStream struct {
	queue  []pending
	seq    uint64
	now    uint64
	rec    *Recorder
	err    error
	closed bool
}

// NewPlayStream returns a live stream. rec may be nil.
func NewPlayStream(rec *Recorder) *PlayStream {
	return &PlayStream{rec: rec}
}

func (s *PlayStream) Push(in Instruction) {
	s.PushAt(s.now, in)
}

func (s *PlayStream) PushAt(tick uint64, in Instruction) {
	if in == nil || s.closed {
		return
	}
	// insert after every entry due at or before tick so equal ticks stay FIFO
	i := sort.Search(len(s.queue), func(i int) bool { return s.queue[i].tick > tick })
	s.queue = append(s.queue, pending{})
	copy(s.queue[i+1:], s.queue[i:])
	s.queue[i] = pending{tick: tick, seq: s.seq, in: in}
	s.seq++
}

func (s *PlayStream) Next(tick uint64) (Envelope, bool) {
	if tick > s.now {
		s.now = tick
	}
	if len(s.queue) == 0 || s.queue[0].tick > tick {
		return Envelope{}, false
	}
	p := s.queue[0]
	s.queue = s.queue[1:]
	env := Envelope{Tick: tick, Instruction: p.in}
	if s.rec != nil && s.err == nil {
		s.err = s.rec.Record(env)
	}
	return env, true
}

func (*PlayStream) Live() bool { return true }

func (*PlayStream) Done(uint64) bool { return false }

// Pending returns the number of queued instructions.
func (s *PlayStream) Pending() int { return len(s.queue) }

// Err returns the first recording error.
func (s *PlayStream) Err() error { return s.err }

// Close writes the log trailer. Further pushes are ignored.
func (s *PlayStream) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	if s.rec != nil && s.err == nil {
		s.err = s.rec.Finish(s.now)
	}
	return s.err
}

// ReplayStream replays a recorded log. Pushes are ignored: every field
// change comes from the log.
type ReplayStream struct {
	envs []Envelope
	pos  int
	end  uint64
}

// NewReplayStream returns a stream over a decoded log.
func NewReplayStream(lg *Log) *ReplayStream {
	return &ReplayStream{envs: lg.Envelopes, end: lg.EndTick}
}

func (*ReplayStream) Push(Instruction) {}

func (*ReplayStream) PushAt(uint64, Instruction) {}

func (s *ReplayStream) Next(tick uint64) (Envelope, bool) {
	if s.pos >= len(s.envs) || s.envs[s.pos].Tick > tick {
		return Envelope{}, false
	}
	env := s.envs[s.pos]
	s.pos++
	return env, true
}

func (*ReplayStream) Live() bool { return false }

// Done reports true once every instruction ran and the recorded end tick passed.
func (s *ReplayStream) Done(tick uint64) bool {
	return s.pos >= len(s.envs) && tick >= s.end
}

// Progress returns how many instructions have been replayed and the total.
func (s *ReplayStream) Progress() (int, int) { return s.pos, len(s.envs) }

// EndTick returns the last recorded tick.
func (s *ReplayStream) EndTick() uint64 { return s.end }

func (*ReplayStream) Close() error { return nil }
