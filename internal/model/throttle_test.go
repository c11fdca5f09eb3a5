package model

import "testing"

func TestThrottleWordDecode(t *testing.T) {
	tests := []struct {
		name string
		word ThrottleWord
		want ThrottleState
	}{
		{"clear", 0, ThrottleState{}},
		{
			"all now",
			0x0F,
			ThrottleState{UnderVoltage: true, FreqCapped: true, Throttled: true, SoftLimit: true},
		},
		{
			"all ever",
			0xF0000,
			ThrottleState{
				UnderVoltageOccurred: true,
				FreqCapOccurred:      true,
				ThrottledOccurred:    true,
				SoftLimitOccurred:    true,
			},
		},
		{
			"mixed",
			0x50005,
			ThrottleState{
				UnderVoltage:         true,
				Throttled:            true,
				UnderVoltageOccurred: true,
				ThrottledOccurred:    true,
			},
		},
		{"unrecognized bits ignored", 0xFFF0FFF0, ThrottleState{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.word.Decode(); got != tt.want {
				t.Errorf("Decode(%#x) = %+v, want %+v", uint32(tt.word), got, tt.want)
			}
		})
	}
}

func TestThrottleWordDecodeIdempotent(t *testing.T) {
	words := []ThrottleWord{0, 0x07, 0x70000, 0xFFFFFFFF}
	for _, w := range words {
		if first, second := w.Decode(), w.Decode(); first != second {
			t.Errorf("Decode(%#x) not stable: %+v then %+v", uint32(w), first, second)
		}
	}
}

func TestThrottleWordTag(t *testing.T) {
	tests := []struct {
		word ThrottleWord
		want string
	}{
		{0, "   "},
		{0x07, "UAT"},
		{0x70000, "uat"},
		{0x20001, "Ua "},
		{0x50002, "uAt"},
		{0x80008, "   "}, // soft limit has no tag cell
		{0x10001, "U  "},
	}
	for _, tt := range tests {
		if got := tt.word.Tag(); got != tt.want {
			t.Errorf("Tag(%#x) = %q, want %q", uint32(tt.word), got, tt.want)
		}
	}
}

func TestThrottleWordActive(t *testing.T) {
	tests := []struct {
		word ThrottleWord
		want bool
	}{
		{0, false},
		{0x01, true},
		{0x02, true},
		{0x04, true},
		{0x08, false},    // soft limit alone never alerts
		{0x70000, false}, // historical flags alone never alert
		{0x70007, true},
	}
	for _, tt := range tests {
		if got := tt.word.Active(); got != tt.want {
			t.Errorf("Active(%#x) = %v, want %v", uint32(tt.word), got, tt.want)
		}
	}
}
