package display

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#336699", 0xFF336699, false},
		{"#80336699", 0x80336699, false},
		{"336699", 0, true},
		{"#zzzzzz", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %s, want %s", tt.in, got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Color(0x80112233).RGBA()
	if r != 0x11 || g != 0x22 || b != 0x33 || a != 0x80 {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
}

func TestAddPanicsOnUnknownKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Add() did not panic for an unknown kind")
		}
	}()
	Add(nil, Spec{Kind: Kind(42)})
}
