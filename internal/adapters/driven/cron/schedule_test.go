package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		cron  string
		every time.Duration
	}{
		{"five field cron", "0 2 * * *", KindCron, "0 2 * * *", 0},
		{"six field cron", "30 0 2 * * *", KindCron, "30 0 2 * * *", 0},
		{"descriptor", "@daily", KindCron, "@daily", 0},
		{"every descriptor", "@every 90m", KindCron, "@every 90m", 0},
		{"cron prefix", "cron: */5 * * * *", KindCron, "*/5 * * * *", 0},
		{"bare duration", "15m", KindInterval, "@every 15m0s", 15 * time.Minute},
		{"hh:mm", "01:30", KindInterval, "@every 1h30m0s", 90 * time.Minute},
		{"every prefix", "every: 2h", KindInterval, "@every 2h0m0s", 2 * time.Hour},
		{"interval prefix", "INTERVAL:45s", KindInterval, "@every 45s", 45 * time.Second},
		{"surrounding space", "  10m  ", KindInterval, "@every 10m0s", 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSchedule(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, spec.Kind)
			assert.Equal(t, tt.cron, spec.Cron)
			assert.Equal(t, tt.every, spec.Every)
		})
	}
}

func TestParseSchedule_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"garbage", "tomorrow"},
		{"zero duration", "0s"},
		{"negative duration", "-5m"},
		{"bad minutes", "01:75"},
		{"empty cron prefix", "cron:"},
		{"empty every prefix", "every:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule(tt.input)
			assert.Error(t, err)
		})
	}
}
