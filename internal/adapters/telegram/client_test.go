package telegram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{BotToken: "token", ChatID: "123"})
	assert.Error(t, err, "nil logger must be rejected")

	_, err = New(Config{ChatID: "123", Logger: &mockLogger{}})
	assert.Error(t, err, "empty bot token must be rejected")

	_, err = New(Config{BotToken: "token", Logger: &mockLogger{}})
	assert.Error(t, err, "empty chat ID must be rejected")
}

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "LONG SIGNAL for BTCUSDT",
			expected: "LONG SIGNAL for BTCUSDT",
		},
		{
			name:     "every special character is escaped",
			input:    "_*[]()~`>#+-=|{}.!",
			expected: `\_\*\[\]\(\)\~` + "\\`" + `\>\#\+\-\=\|\{\}\.\!`,
		},
		{
			name:     "decimal prices",
			input:    "Price: 50000.12345",
			expected: `Price: 50000\.12345`,
		},
		{
			name:     "mixed body",
			input:    "TP: 101.5 (zone-confirmed)",
			expected: `TP: 101\.5 \(zone\-confirmed\)`,
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "unicode is preserved",
			input:    "🎯 LONG!",
			expected: `🎯 LONG\!`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeMarkdownV2(tt.input))
		})
	}
}
