package model

// ThrottleWord is the raw 32-bit status mask reported by the firmware's
// get_throttled query. Bits 0-3 describe conditions in effect right now,
// bits 16-19 the same conditions having occurred since boot. Decoding is
// pure and total: every 32-bit value is valid input and unrecognized bits
// are ignored.
type ThrottleWord uint32

// Throttle word bits.
const (
	UnderVoltageNow  ThrottleWord = 1 << 0
	FreqCappedNow    ThrottleWord = 1 << 1
	ThrottledNow     ThrottleWord = 1 << 2
	SoftLimitNow     ThrottleWord = 1 << 3
	UnderVoltageEver ThrottleWord = 1 << 16
	FreqCappedEver   ThrottleWord = 1 << 17
	ThrottledEver    ThrottleWord = 1 << 18
	SoftLimitEver    ThrottleWord = 1 << 19
)

// ThrottleState is the decoded form of a ThrottleWord.
type ThrottleState struct {
	UnderVoltage bool // supply below 4.63 V right now
	FreqCapped   bool // ARM frequency capped right now
	Throttled    bool // actively throttled right now
	SoftLimit    bool // soft temperature limit in effect right now

	UnderVoltageOccurred bool
	FreqCapOccurred      bool
	ThrottledOccurred    bool
	SoftLimitOccurred    bool
}

// Decode expands the word into named condition flags.
func (w ThrottleWord) Decode() ThrottleState {
	return ThrottleState{
		UnderVoltage:         w&UnderVoltageNow != 0,
		FreqCapped:           w&FreqCappedNow != 0,
		Throttled:            w&ThrottledNow != 0,
		SoftLimit:            w&SoftLimitNow != 0,
		UnderVoltageOccurred: w&UnderVoltageEver != 0,
		FreqCapOccurred:      w&FreqCappedEver != 0,
		ThrottledOccurred:    w&ThrottledEver != 0,
		SoftLimitOccurred:    w&SoftLimitEver != 0,
	}
}

// Active reports whether under-voltage, frequency capping or throttling is
// in effect right now (bits 0-2). The soft temperature limit does not count
// as active; it never rings the alert bell.
func (w ThrottleWord) Active() bool {
	return w&(UnderVoltageNow|FreqCappedNow|ThrottledNow) != 0
}

// Tag renders the compact three-cell display tag. Each cell covers one
// condition pair: upper case while the condition is in effect, lower case if
// it has only occurred since boot, space if it never has. A fully clear word
// renders as three spaces.
func (w ThrottleWord) Tag() string {
	return string([]byte{
		cell(w, UnderVoltageNow, UnderVoltageEver, 'U', 'u'),
		cell(w, FreqCappedNow, FreqCappedEver, 'A', 'a'),
		cell(w, ThrottledNow, ThrottledEver, 'T', 't'),
	})
}

func cell(w, now, ever ThrottleWord, upper, lower byte) byte {
	switch {
	case w&now != 0:
		return upper
	case w&ever != 0:
		return lower
	default:
		return ' '
	}
}
