package indicators

import (
	"context"
	"testing"
)

func TestVolatility_Calculate(t *testing.T) {
	tests := []struct {
		name          string
		closes        []float64
		expectedValue float64
		expectError   bool
	}{
		{
			name:          "flat series has exactly zero volatility",
			closes:        []float64{100, 100, 100, 100, 100},
			expectedValue: 0.0,
			expectError:   false,
		},
		{
			name:   "symmetric swing",
			closes: []float64{100, 110, 99},
			// returns +10% and -10%, mean 0, population stddev 10%
			expectedValue: 10.0,
			expectError:   false,
		},
		{
			name:        "insufficient data",
			closes:      []float64{100},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol := NewVolatility(VolatilityConfig{})
			value, err := vol.Calculate(context.Background(), candlesFromCloses(tt.closes...))

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

func TestVolatility_Name(t *testing.T) {
	vol := NewVolatility(VolatilityConfig{})
	if name := vol.Name(); name != "Volatility" {
		t.Errorf("Expected name 'Volatility', got '%s'", name)
	}
}
