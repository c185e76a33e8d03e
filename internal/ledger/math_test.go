package ledger

import (
	"math"
	"testing"
)

func TestAmountsEqual(t *testing.T) {
	if !AmountsEqual(100.004, 100.000) {
		t.Fatalf("difference under tolerance should compare equal")
	}
	if AmountsEqual(100.02, 100.00) {
		t.Fatalf("difference over tolerance should not compare equal")
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(10.005); got != 10.01 {
		t.Fatalf("expected 10.01, got %v", got)
	}
	if got := Round2(10.004); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}

func TestSafeAmount(t *testing.T) {
	if got := SafeAmount(math.NaN()); got != 0 {
		t.Fatalf("NaN must normalise to zero, got %v", got)
	}
	if got := SafeAmount(math.Inf(1)); got != 0 {
		t.Fatalf("Inf must normalise to zero, got %v", got)
	}
	if got := SafeAmount(12.5); got != 12.5 {
		t.Fatalf("finite amount must pass through, got %v", got)
	}
}
