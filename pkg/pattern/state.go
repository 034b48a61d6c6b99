package pattern

import "fmt"

// Inputs are the raw values of the control registers sampled in a tick.
type Inputs struct {
	Direction   uint32
	ActiveCount uint32
	BlinkEnable uint32
}

// Forward indicates the strip rotates towards higher indices.
func (in Inputs) Forward() bool {
	return in.Direction&1 == 1
}

// Blinking indicates the off phase of blinking is enabled.
func (in Inputs) Blinking() bool {
	return in.BlinkEnable&1 == 1
}

// Count is the number of active LEDs. The register is signed.
func (in Inputs) Count() int32 {
	return int32(in.ActiveCount)
}

// Timing defines the periods of the blink and shift events in ticks.
type Timing struct {
	BlinkPeriod int
	ShiftPeriod int
}

// DefaultTiming blinks every 2 ticks and shifts every tick.
var DefaultTiming = Timing{BlinkPeriod: 2, ShiftPeriod: 1}

// Validate checks both periods are reachable.
func (t Timing) Validate() error {
	if t.BlinkPeriod < 1 {
		return fmt.Errorf("invalid blink period %d", t.BlinkPeriod)
	}
	if t.ShiftPeriod < 1 {
		return fmt.Errorf("invalid shift period %d", t.ShiftPeriod)
	}
	return nil
}

// State is carried from one tick to the next.
type State struct {
	// StartPtr is the rotation offset, always in [0, Width).
	StartPtr int
	// BlinkMask is 1 during the on phase, 0 during the off phase.
	BlinkMask  uint8
	BlinkCount int
	ShiftCount int
}

// NewState creates the state at power on.
func NewState() State {
	return State{BlinkMask: 1}
}

// Next advances the counters by one tick.
func (s State) Next(in Inputs, t Timing) State {
	s.BlinkCount++
	if s.BlinkCount == t.BlinkPeriod {
		s.BlinkCount = 0
		if s.BlinkMask == 1 && in.Blinking() {
			s.BlinkMask = 0
		} else {
			s.BlinkMask = 1
		}
	}

	s.ShiftCount++
	if s.ShiftCount == t.ShiftPeriod {
		s.ShiftCount = 0
		if in.Forward() {
			s.StartPtr++
		} else {
			s.StartPtr--
		}
		s.StartPtr = (s.StartPtr%Width + Width) % Width
	}
	return s
}

// Vector builds the strip for the state.
func (s State) Vector(in Inputs) Vector {
	return BaseVector(in.Count(), s.BlinkMask).Rotate(s.StartPtr)
}

// Tick advances the state and computes the LED register value.
func Tick(s State, in Inputs, t Timing) (State, uint8) {
	s = s.Next(in, t)
	return s, s.Vector(in).Encode()
}
