package indicators

import (
	"context"
	"errors"
	"testing"
)

func TestATR_Series(t *testing.T) {
	// High/low straddle the close by 1 and the closes do not gap, so every
	// true range is 2.
	series := seriesFromCloses(10, 10.5, 11, 10.8, 10.6)

	atr := NewATR(IndicatorConfig{Period: 3})
	out, err := atr.Series(context.Background(), series)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.AbsentCount() != 2 {
		t.Errorf("Expected 2 absent points, got %d", out.AbsentCount())
	}
	for i := 2; i < out.Len(); i++ {
		if v, ok := out.At(i); !ok || !almostEqual(v, 2.0) {
			t.Errorf("point %d: expected 2.0, got %f (valid=%v)", i, v, ok)
		}
	}
}

func TestATR_GapUsesPreviousClose(t *testing.T) {
	series := seriesFromCloses(10, 20)
	out, err := AverageTrueRange(series, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Second bar: high 21, previous close 10 -> true range 11.
	if v, _ := out.At(1); !almostEqual(v, 11.0) {
		t.Errorf("Expected 11.0, got %f", v)
	}
}

func TestATR_InvalidPeriod(t *testing.T) {
	if _, err := AverageTrueRange(seriesFromCloses(1, 2), 0); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow, got %v", err)
	}
}
