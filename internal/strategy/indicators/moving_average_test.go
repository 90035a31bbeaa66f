package indicators

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

func TestMovingAverage_Scenario(t *testing.T) {
	series := seriesFromCloses(100, 102, 101, 105, 107)

	ma, err := MovingAverage(series, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ma.Len() != series.Len() {
		t.Fatalf("Expected %d points, got %d", series.Len(), ma.Len())
	}

	expected := []struct {
		valid bool
		value float64
	}{
		{false, 0},
		{false, 0},
		{true, 101.0},
		{true, 102.666667},
		{true, 104.333333},
	}
	for i, want := range expected {
		got, ok := ma.At(i)
		if ok != want.valid {
			t.Errorf("point %d: expected valid=%v, got %v", i, want.valid, ok)
			continue
		}
		if ok && !almostEqual(got, want.value) {
			t.Errorf("point %d: expected %f, got %f", i, want.value, got)
		}
	}
}

func TestMovingAverage_Windows(t *testing.T) {
	series := seriesFromCloses(100, 102, 101, 103, 104)

	tests := []struct {
		name        string
		window      int
		wantAbsent  int
		wantLast    float64
		expectError bool
	}{
		{name: "window of one echoes closes", window: 1, wantAbsent: 0, wantLast: 104},
		{name: "window equal to length", window: 5, wantAbsent: 4, wantLast: 102},
		{name: "window longer than series", window: 6, wantAbsent: 5},
		{name: "zero window", window: 0, expectError: true},
		{name: "negative window", window: -3, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma, err := MovingAverage(series, tt.window)
			if tt.expectError {
				if !errors.Is(err, ErrInvalidWindow) {
					t.Errorf("Expected ErrInvalidWindow, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := ma.AbsentCount(); got != tt.wantAbsent {
				t.Errorf("Expected %d absent points, got %d", tt.wantAbsent, got)
			}
			if last, ok := ma.Last(); ok && !almostEqual(last.Value, tt.wantLast) {
				t.Errorf("Expected last value %f, got %f", tt.wantLast, last.Value)
			}
		})
	}
}

func TestMovingAverage_LeadingAbsenceAndMeans(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(40)
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = 50 + rng.Float64()*100
		}
		series := seriesFromCloses(closes...)
		window := 1 + rng.Intn(45)

		ma, err := MovingAverage(series, window)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if ma.Len() != n {
			t.Fatalf("Expected %d points, got %d", n, ma.Len())
		}

		leading := window - 1
		if leading > n {
			leading = n
		}
		for i := 0; i < n; i++ {
			v, ok := ma.At(i)
			if i < leading {
				if ok {
					t.Fatalf("n=%d window=%d: point %d should be absent", n, window, i)
				}
				continue
			}
			if !ok {
				t.Fatalf("n=%d window=%d: point %d should be defined", n, window, i)
			}
			sum := 0.0
			for _, c := range closes[i-window+1 : i+1] {
				sum += c
			}
			if !almostEqual(v, sum/float64(window)) {
				t.Fatalf("n=%d window=%d: point %d expected %f, got %f", n, window, i, sum/float64(window), v)
			}
		}
	}
}

func TestMovingAverage_Idempotent(t *testing.T) {
	series := seriesFromCloses(10, 11, 12, 11, 13, 15, 14)

	first, err := MovingAverage(series, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := MovingAverage(series, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := range first.Points {
		if first.Points[i] != second.Points[i] {
			t.Errorf("point %d differs between calls: %+v vs %+v", i, first.Points[i], second.Points[i])
		}
	}
	if series.Bars[0].Close != 10 {
		t.Error("input series was mutated")
	}
}

func TestExponentialMovingAverage(t *testing.T) {
	series := seriesFromCloses(100, 102, 101, 103, 104)

	ema, err := ExponentialMovingAverage(series, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := ema.AbsentCount(); got != 2 {
		t.Errorf("Expected 2 absent points, got %d", got)
	}
	if v, _ := ema.At(2); !almostEqual(v, 101.0) {
		t.Errorf("Expected seed 101.0, got %f", v)
	}
	if last, _ := ema.Last(); !almostEqual(last.Value, 103.0) {
		t.Errorf("Expected 103.0, got %f", last.Value)
	}

	short, err := ExponentialMovingAverage(seriesFromCloses(1, 2), 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if short.AbsentCount() != 2 {
		t.Error("Expected all points absent for a short series")
	}
}

func TestAverage_Indicator(t *testing.T) {
	series := seriesFromCloses(100, 102, 101, 103, 104)

	tests := []struct {
		name        string
		config      AverageConfig
		wantName    string
		wantLast    float64
		expectError bool
	}{
		{
			name:     "SMA",
			config:   AverageConfig{IndicatorConfig: IndicatorConfig{Period: 3}, Type: SimpleMovingAverage},
			wantName: "SMA3",
			wantLast: 102.666667, // (101 + 103 + 104) / 3
		},
		{
			name:     "EMA",
			config:   AverageConfig{IndicatorConfig: IndicatorConfig{Period: 3}, Type: ExponentialMovingAverageType},
			wantName: "EMA3",
			wantLast: 103.0,
		},
		{
			name:        "Invalid MA type",
			config:      AverageConfig{IndicatorConfig: IndicatorConfig{Period: 3}, Type: "INVALID"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg := NewAverage(tt.config)
			out, err := avg.Series(context.Background(), series)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Name != tt.wantName {
				t.Errorf("Expected name %s, got %s", tt.wantName, out.Name)
			}
			if avg.RequiredDataPoints() != 3 {
				t.Errorf("Expected 3 required points, got %d", avg.RequiredDataPoints())
			}
			if last, _ := out.Last(); !almostEqual(last.Value, tt.wantLast) {
				t.Errorf("Expected value %f, got %f", tt.wantLast, last.Value)
			}
		})
	}
}
