package indicators

import (
	"context"
	"testing"
)

func TestEMA_Calculate(t *testing.T) {
	tests := []struct {
		name          string
		period        int
		closes        []float64
		expectedValue float64
		expectError   bool
	}{
		{
			name:   "seeded from first value",
			period: 3,
			closes: []float64{1, 2, 3, 4, 5},
			// multiplier 0.5: 1, 1.5, 2.25, 3.125, 4.0625
			expectedValue: 4.0625,
			expectError:   false,
		},
		{
			name:          "constant series stays constant",
			period:        5,
			closes:        []float64{10, 10, 10, 10, 10, 10},
			expectedValue: 10,
			expectError:   false,
		},
		{
			name:        "insufficient data",
			period:      10,
			closes:      []float64{1, 2, 3},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ema := NewEMA(EMAConfig{IndicatorConfig: IndicatorConfig{Period: tt.period}})
			value, err := ema.Calculate(context.Background(), candlesFromCloses(tt.closes...))

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if value-tt.expectedValue > 0.0001 || value-tt.expectedValue < -0.0001 {
				t.Errorf("Expected value %f, got %f", tt.expectedValue, value)
			}
		})
	}
}

func TestEMA_FastCrossesAboveSlowOnUptrend(t *testing.T) {
	// A strictly increasing series must eventually put the fast EMA above
	// the slow EMA.
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	candles := candlesFromCloses(closes...)

	fast := NewEMA(EMAConfig{IndicatorConfig: IndicatorConfig{Period: 9}})
	slow := NewEMA(EMAConfig{IndicatorConfig: IndicatorConfig{Period: 21}})

	fastVal, err := fast.Calculate(context.Background(), candles)
	if err != nil {
		t.Fatalf("fast EMA error: %v", err)
	}
	slowVal, err := slow.Calculate(context.Background(), candles)
	if err != nil {
		t.Fatalf("slow EMA error: %v", err)
	}
	if fastVal <= slowVal {
		t.Errorf("expected fast EMA (%f) above slow EMA (%f) on uptrend", fastVal, slowVal)
	}
}

func TestEMA_Name(t *testing.T) {
	ema := NewEMA(EMAConfig{})
	if name := ema.Name(); name != "EMA" {
		t.Errorf("Expected name 'EMA', got '%s'", name)
	}
}
