// Package pattern computes the LED strip pattern driven by the
// direction, active-count and blink-enable registers.
package pattern

import "strings"

// Width is the number of LEDs on the strip.
const Width = 8

// Vector holds the on/off state of each LED, 0 or 1.
// Index 0 is the first LED of the strip.
type Vector [Width]uint8

// BaseVector lights the first count LEDs with mask.
// A count above Width lights all of them, zero or negative lights none.
func BaseVector(count int32, mask uint8) Vector {
	var v Vector
	for i := range v {
		if int32(i) < count {
			v[i] = mask & 1
		}
	}
	return v
}

// Rotate shifts the vector circularly towards higher indices,
// wrapping the tail around to index 0.
func (v Vector) Rotate(offset int) Vector {
	offset %= Width
	if offset < 0 {
		offset += Width
	}
	var out Vector
	for i := range v {
		out[(i+offset)%Width] = v[i]
	}
	return out
}

// Encode packs the vector into a byte, LED 0 being the most significant bit.
func (v Vector) Encode() uint8 {
	var b uint8
	for i, on := range v {
		if on != 0 {
			b |= 1 << uint(Width-1-i)
		}
	}
	return b
}

// Decode unpacks a byte produced by Encode.
func Decode(b uint8) Vector {
	var v Vector
	for i := range v {
		v[i] = (b >> uint(Width-1-i)) & 1
	}
	return v
}

// Lit returns the number of LEDs turned on.
func (v Vector) Lit() int {
	var n int
	for _, on := range v {
		n += int(on)
	}
	return n
}

// String renders the strip, e.g. "●●●○○○○○".
func (v Vector) String() string {
	var sb strings.Builder
	for _, on := range v {
		if on != 0 {
			sb.WriteString("●")
		} else {
			sb.WriteString("○")
		}
	}
	return sb.String()
}
