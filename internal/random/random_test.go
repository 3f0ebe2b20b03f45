package random

import "testing"

func TestForStepIsDeterministic(t *testing.T) {
	a := ForStep(42, 3)
	b := ForStep(42, 3)
	for i := 0; i < 16; i++ {
		if x, y := a.Int63(), b.Int63(); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
	if ForStep(42, 3).Int63() == ForStep(42, 4).Int63() {
		t.Fatalf("expected distinct steps to produce distinct streams")
	}
}

func TestBernoulliClampsProbability(t *testing.T) {
	src := New(1)
	tests := []struct {
		name string
		p    float64
		want bool
	}{
		{name: "negative", p: -0.4, want: false},
		{name: "zero", p: 0, want: false},
		{name: "one", p: 1, want: true},
		{name: "above one", p: 1.7, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				if got := Bernoulli(src, tt.p); got != tt.want {
					t.Fatalf("Bernoulli(%v) = %v, want %v", tt.p, got, tt.want)
				}
			}
		})
	}
}

func TestBetweenStaysInRange(t *testing.T) {
	src := New(7)
	for i := 0; i < 1000; i++ {
		v := Between(src, 4, 7)
		if v < 4 || v > 7 {
			t.Fatalf("Between(4,7) = %d", v)
		}
	}
	if got := Between(src, 5, 5); got != 5 {
		t.Fatalf("Between(5,5) = %d", got)
	}
}
