package main

import "testing"

func TestParseTriState(t *testing.T) {
	tests := []struct {
		value string
		want  triState
		ok    bool
	}{
		{value: "", want: triAuto, ok: true},
		{value: "auto", want: triAuto, ok: true},
		{value: " On ", want: triOn, ok: true},
		{value: "OFF", want: triOff, ok: true},
		{value: "yes", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseTriState("ui", tt.value)
			if tt.ok != (err == nil) {
				t.Fatalf("parseTriState(%q) error = %v", tt.value, err)
			}
			if tt.ok && got != tt.want {
				t.Fatalf("parseTriState(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestTriStateForcedModes(t *testing.T) {
	if !triOn.resolve(nil) {
		t.Fatalf("on should resolve true regardless of the stream")
	}
	if triOff.resolve(nil) {
		t.Fatalf("off should resolve false regardless of the stream")
	}
}
