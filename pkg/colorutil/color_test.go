package colorutil

import (
	"testing"

	"github.com/pkg/errors"
)

func TestSaturatingOps(t *testing.T) {
	tests := []struct {
		name string
		got  Color
		want Color
	}{
		{"mul saturates to white", NewColor(75, 75, 75).Mul(NewColor(100, 100, 100)), ColorWhite},
		{"sub pairwise", NewColor(50, 50, 50).Sub(NewColor(20, 20, 20)), NewColor(30, 30, 30)},
		{"sub scalar", NewColor(30, 30, 30).SubScalar(20), NewColor(10, 10, 10)},
		{"sub scalar underflow", NewColor(30, 30, 30).SubScalar(40), ColorBlack},
		{"sub never wraps", NewColor(10, 10, 10).SubScalar(20), ColorBlack},
		{"add saturates", NewColor(250, 10, 128).AddScalar(10), NewColor(255, 20, 138)},
		{"add pairwise", NewColor(200, 1, 2).Add(NewColor(100, 1, 2)), NewColor(255, 2, 4)},
		{"mul scalar", NewColor(2, 3, 200).MulScalar(2), NewColor(4, 6, 255)},
		{"neg", NewColor(0, 100, 255).Neg(), NewColor(255, 155, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestDivRem(t *testing.T) {
	q, err := NewColor(100, 7, 9).Div(NewColor(3, 2, 10))
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if q != NewColor(33, 3, 0) {
		t.Errorf("Div = %s, want rgb(33,3,0)", q)
	}

	r, err := NewColor(100, 7, 9).RemScalar(4)
	if err != nil {
		t.Fatalf("RemScalar: %v", err)
	}
	if r != NewColor(0, 3, 1) {
		t.Errorf("RemScalar = %s, want rgb(0,3,1)", r)
	}

	if _, err := NewColor(10, 10, 10).Div(NewColor(1, 0, 1)); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Div by zero channel: got %v, want ErrDivisionByZero", err)
	}
	if _, err := NewColor(10, 10, 10).RemScalar(0); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("RemScalar(0): got %v, want ErrDivisionByZero", err)
	}
}

func TestBandBounds(t *testing.T) {
	refs := []Color{ColorBlack, ColorWhite, NewColor(10, 128, 250), NewColor(1, 254, 0)}
	tols := []uint8{0, 1, 5, 20, 127, 255}

	for _, ref := range refs {
		for _, tol := range tols {
			lower, upper := ref.Band(tol)
			for i, c := range ref.Channels() {
				lo, hi := lower.Channels()[i], upper.Channels()[i]
				if lo > c || c > hi {
					t.Errorf("Band(%s, %d) channel %d: %d <= %d <= %d violated", ref, tol, i, lo, c, hi)
				}
			}
			if !Contains(lower, upper, ref) {
				t.Errorf("Band(%s, %d) does not contain its reference", ref, tol)
			}
		}
	}
}

func TestFromBGR(t *testing.T) {
	if got := FromBGR(1, 2, 3); got != NewColor(3, 2, 1) {
		t.Errorf("FromBGR(1,2,3) = %s, want rgb(3,2,1)", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"200,50,50", NewColor(200, 50, 50), false},
		{" 1, 2 ,3 ", NewColor(1, 2, 3), false},
		{"rgb(255,0,1)", NewColor(255, 0, 1), false},
		{"#ff8000", NewColor(255, 128, 0), false},
		{"#ff80", Color{}, true},
		{"256,0,0", Color{}, true},
		{"1,2", Color{}, true},
		{"red", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	// String output parses back.
	c := NewColor(9, 99, 199)
	if got, err := ParseColor(c.String()); err != nil || got != c {
		t.Errorf("ParseColor(%q) = %s, %v", c.String(), got, err)
	}
}
