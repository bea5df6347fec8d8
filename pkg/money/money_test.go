package money

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.004, 1.0},
		{1.006, 1.01},
		{-1.006, -1.01},
		{80.0, 80.0},
		{33.333333, 33.33},
		{66.666666, 66.67},
	}
	for _, c := range cases {
		if got := Round2(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestUnits(t *testing.T) {
	cases := []struct {
		amount, price float64
		want          int
	}{
		{500, 25, 20},
		{300, 25, 12},
		{301, 25, 13},
		{0.01, 25, 1},
		{25, 25, 1},
		{100, 0, 0}, // guard against a bad price
	}
	for _, c := range cases {
		if got := Units(c.amount, c.price); got != c.want {
			t.Fatalf("Units(%v, %v) = %d, want %d", c.amount, c.price, got, c.want)
		}
	}
}

func TestAllocate_ExactSplit(t *testing.T) {
	got := Allocate(80, []float64{500, 300})
	if got[0] != 50 || got[1] != 30 {
		t.Fatalf("Allocate(80, [500 300]) = %v, want [50 30]", got)
	}
}

func TestAllocate_RemainderLandsOnLastWeight(t *testing.T) {
	got := Allocate(100, []float64{1, 1, 1})
	var sum float64
	for _, v := range got {
		sum = Round2(sum + v)
	}
	if sum != 100 {
		t.Fatalf("slices sum to %v, want exactly 100 (got %v)", sum, got)
	}
	if got[0] != 33.33 || got[1] != 33.33 || got[2] != 33.34 {
		t.Fatalf("unexpected allocation: %v", got)
	}
}

func TestAllocate_SkipsZeroWeights(t *testing.T) {
	got := Allocate(10, []float64{5, 0, 5})
	if got[1] != 0 {
		t.Fatalf("zero weight received %v", got[1])
	}
	if got[0] != 5 || got[2] != 5 {
		t.Fatalf("unexpected allocation: %v", got)
	}
}

func TestAllocate_Empty(t *testing.T) {
	if got := Allocate(10, nil); len(got) != 0 {
		t.Fatalf("want empty slice, got %v", got)
	}
	got := Allocate(0, []float64{1, 2})
	if got[0] != 0 || got[1] != 0 {
		t.Fatalf("zero total should allocate nothing, got %v", got)
	}
}

func TestAllocate_TinyTotalNeverGoesNegative(t *testing.T) {
	// Each quarter-cent rounds up to a cent; without clamping the first
	// three slices would consume 3 cents and leave the last one at -0.01.
	got := Allocate(0.02, []float64{1, 1, 1, 1})

	var sum float64
	for i, v := range got {
		if v < 0 {
			t.Fatalf("slice %d is negative: %v (all: %v)", i, v, got)
		}
		sum = Round2(sum + v)
	}
	if sum != 0.02 {
		t.Fatalf("slices sum to %v, want exactly 0.02 (got %v)", sum, got)
	}
}
