package x11

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestPointerDiff(t *testing.T) {
	tests := []struct {
		name         string
		prev, next   pointerState
		wantMoved    bool
		wantPressed  int
		wantReleased int
	}{
		{
			name: "still",
			prev: pointerState{x: 10, y: 10},
			next: pointerState{x: 10, y: 10},
		},
		{
			name:      "moved",
			prev:      pointerState{x: 10, y: 10},
			next:      pointerState{x: 11, y: 10},
			wantMoved: true,
		},
		{
			name:        "left press",
			prev:        pointerState{},
			next:        pointerState{buttons: xproto.KeyButMaskButton1},
			wantPressed: 1,
		},
		{
			name: "held button is not a new click",
			prev: pointerState{buttons: xproto.KeyButMaskButton1},
			next: pointerState{buttons: xproto.KeyButMaskButton1},
		},
		{
			name:         "release",
			prev:         pointerState{buttons: xproto.KeyButMaskButton3},
			next:         pointerState{},
			wantReleased: 1,
		},
		{
			name:        "two buttons pressed together",
			prev:        pointerState{},
			next:        pointerState{buttons: xproto.KeyButMaskButton1 | xproto.KeyButMaskButton2},
			wantPressed: 2,
		},
		{
			name: "wheel and modifiers ignored",
			prev: pointerState{},
			next: pointerState{buttons: xproto.KeyButMaskButton4 | xproto.KeyButMaskShift},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved, pressed, released := tt.prev.diff(tt.next)
			if moved != tt.wantMoved || pressed != tt.wantPressed || released != tt.wantReleased {
				t.Errorf("diff() = (%v, %d, %d), want (%v, %d, %d)",
					moved, pressed, released, tt.wantMoved, tt.wantPressed, tt.wantReleased)
			}
		})
	}
}

func TestNewlyPressed(t *testing.T) {
	empty := make([]byte, 32)
	keyA := make([]byte, 32)
	keyA[4] = 0x02
	keyAB := make([]byte, 32)
	keyAB[4] = 0x06

	tests := []struct {
		name      string
		prev, cur []byte
		want      bool
	}{
		{"nothing down", empty, empty, false},
		{"key goes down", empty, keyA, true},
		{"key held", keyA, keyA, false},
		{"key released", keyA, empty, false},
		{"second key while first held", keyA, keyAB, true},
		{"short previous keymap", nil, keyA, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newlyPressed(tt.prev, tt.cur); got != tt.want {
				t.Errorf("newlyPressed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBitCount(t *testing.T) {
	if n := bitCount(0); n != 0 {
		t.Errorf("bitCount(0) = %d", n)
	}
	if n := bitCount(clickButtons); n != 3 {
		t.Errorf("bitCount(clickButtons) = %d, want 3", n)
	}
}
