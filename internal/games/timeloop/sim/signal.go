package sim

// SignalCount tracks how many trigger sources a channel needs and how many
// are currently active.
type SignalCount struct {
	Needed int
	Seen   int
}

// SignalCounter maps channel ids to their counts.
type SignalCounter map[int]*SignalCount

func (s SignalCounter) ensure(channel int) *SignalCount {
	c, ok := s[channel]
	if !ok {
		c = &SignalCount{}
		s[channel] = c
	}
	return c
}

// RegisterSource adds one required trigger to a channel.
func (s SignalCounter) RegisterSource(channel int) {
	s.ensure(channel).Needed++
}

// Increment records a rising edge on one of the channel's triggers.
func (s SignalCounter) Increment(channel int) {
	s.ensure(channel).Seen++
}

// Decrement records a falling edge. Seen never drops below zero.
func (s SignalCounter) Decrement(channel int) {
	c := s.ensure(channel)
	if c.Seen > 0 {
		c.Seen--
	}
}

// Satisfied reports whether every required trigger on the channel is active.
// A channel that was never touched is unsatisfied, so a door without a
// button stays shut.
func (s SignalCounter) Satisfied(channel int) bool {
	c, ok := s[channel]
	if !ok {
		return false
	}
	return c.Seen >= c.Needed
}

// Reset clears every channel.
func (s SignalCounter) Reset() {
	for k := range s {
		delete(s, k)
	}
}
