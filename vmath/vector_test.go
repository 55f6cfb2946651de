package vmath

import (
	"math"
	"testing"
)

func TestVec2Basics(t *testing.T) {
	a := V2(3, 4)
	if got := a.Len(); got != 5 {
		t.Errorf("Len() = %v, want 5", got)
	}
	if got := a.LenSq(); got != 25 {
		t.Errorf("LenSq() = %v, want 25", got)
	}
	if got := a.Add(V2(1, 1)); got != V2(4, 5) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(V2(3, 4)); !got.IsZero() {
		t.Errorf("Sub = %v, want zero", got)
	}
	n := a.Normalize()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("Normalize length = %v", n.Len())
	}
	if got := (Vec2{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize(zero) = %v", got)
	}
	if got := a.ClampLen(2.5); math.Abs(got.Len()-2.5) > 1e-12 {
		t.Errorf("ClampLen = %v", got)
	}
}

func TestCellOf(t *testing.T) {
	tests := []struct {
		name   string
		p      Vec2
		cx, cy int
	}{
		{"origin", V2(0, 0), 0, 0},
		{"inside first", V2(99.9, 50), 0, 0},
		{"second", V2(100, 150), 1, 1},
		{"negative", V2(-1, -101), -1, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := CellOf(tt.p, 100)
			if cx != tt.cx || cy != tt.cy {
				t.Errorf("CellOf(%v) = (%d,%d), want (%d,%d)", tt.p, cx, cy, tt.cx, tt.cy)
			}
		})
	}
}

func TestRangeCells(t *testing.T) {
	tests := []struct {
		r    float64
		size int
		want int
	}{
		{150, 100, 2},
		{99.9, 100, 1},
		{200, 100, 3},
		{0, 100, 0},
		{-5, 100, 0},
	}
	for _, tt := range tests {
		if got := RangeCells(tt.r, tt.size); got != tt.want {
			t.Errorf("RangeCells(%v, %d) = %d, want %d", tt.r, tt.size, got, tt.want)
		}
	}
}

func TestCellCenter(t *testing.T) {
	if got := CellCenter(1, 1, 100); got != V2(150, 150) {
		t.Errorf("CellCenter(1,1) = %v", got)
	}
}
