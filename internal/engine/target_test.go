package engine

import (
	"errors"
	"testing"
)

func TestSearchToTargetAlreadyFits(t *testing.T) {
	calls := 0
	out, err := searchToTarget(80, 10000, func(q int) ([]byte, error) {
		calls++
		return make([]byte, q*100), nil
	})
	if err != nil {
		t.Fatalf("searchToTarget: %v", err)
	}
	if len(out) != 8000 {
		t.Errorf("len = %d, want 8000", len(out))
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSearchToTargetFindsBestUnder(t *testing.T) {
	calls := 0
	out, err := searchToTarget(80, 3000, func(q int) ([]byte, error) {
		calls++
		return make([]byte, q*100), nil
	})
	if err != nil {
		t.Fatalf("searchToTarget: %v", err)
	}

	if len(out) > 3000 {
		t.Errorf("len = %d, exceeds target 3000", len(out))
	}
	// quality 30 is the largest encoding that fits
	if len(out) != 3000 {
		t.Errorf("len = %d, want 3000", len(out))
	}
	// one seed probe plus at most six search probes
	if calls > 7 {
		t.Errorf("calls = %d, want at most 7", calls)
	}
}

func TestSearchToTargetNothingFits(t *testing.T) {
	sizes := map[int]int{}
	out, err := searchToTarget(50, 100, func(q int) ([]byte, error) {
		size := 5000 + q
		sizes[q] = size
		return make([]byte, size), nil
	})
	if err != nil {
		t.Fatalf("searchToTarget: %v", err)
	}

	smallest := 0
	for _, s := range sizes {
		if smallest == 0 || s < smallest {
			smallest = s
		}
	}
	if len(out) != smallest {
		t.Errorf("len = %d, want smallest probed %d", len(out), smallest)
	}
}

func TestSearchToTargetPropagatesErrors(t *testing.T) {
	wantErr := errors.New("encode blew up")
	_, err := searchToTarget(80, 100, func(q int) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestEstimateQuality(t *testing.T) {
	tests := []struct {
		maxQuality, current, target int
		want                        int
	}{
		{80, 0, 3000, 80},    // no data, keep max
		{80, 8000, 0, 80},    // no target, keep max
		{80, 8000, 8000, 80}, // ratio capped at 1
		{100, 100000, 100, 17},
	}

	for _, tt := range tests {
		got := estimateQuality(tt.maxQuality, tt.current, tt.target)
		if got != tt.want {
			t.Errorf("estimateQuality(%d, %d, %d) = %d, want %d",
				tt.maxQuality, tt.current, tt.target, got, tt.want)
		}
	}

	// estimates stay within bounds across the ratio range
	for current := 1000; current <= 100000; current += 7000 {
		got := estimateQuality(90, current, 5000)
		if got < 1 || got > 90 {
			t.Fatalf("estimate out of range for current=%d: %d", current, got)
		}
	}
}
