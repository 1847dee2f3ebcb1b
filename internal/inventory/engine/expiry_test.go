package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyExpiry(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   ExpiryStatus
		days   int
	}{
		{
			name:   "yesterday is expired",
			expiry: asOf.AddDate(0, 0, -1),
			want:   StatusExpired,
			days:   -1,
		},
		{
			name:   "today is expiring soon",
			expiry: asOf,
			want:   StatusExpiringSoon,
			days:   0,
		},
		{
			name:   "day 30 is still expiring soon",
			expiry: asOf.AddDate(0, 0, 30),
			want:   StatusExpiringSoon,
			days:   30,
		},
		{
			name:   "day 31 is good",
			expiry: asOf.AddDate(0, 0, 31),
			want:   StatusGood,
			days:   31,
		},
		{
			name:   "far future is good",
			expiry: asOf.AddDate(2, 0, 0),
			want:   StatusGood,
			days:   731,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExpiry(tt.expiry, asOf))
			assert.Equal(t, tt.days, DaysUntilExpiry(tt.expiry, asOf))
		})
	}
}

func TestClassifyExpiryIgnoresTimeOfDay(t *testing.T) {
	// Expiry late tomorrow evening, reference early today: still one whole day.
	asOf := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	expiry := time.Date(2026, 3, 16, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysUntilExpiry(expiry, asOf))
	assert.Equal(t, StatusExpiringSoon, ClassifyExpiry(expiry, asOf))
}

func TestIsExpired(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsExpired(asOf.AddDate(0, 0, -1), asOf))
	assert.False(t, IsExpired(asOf, asOf), "expiry day itself is still sellable")
	assert.False(t, IsExpired(asOf.AddDate(0, 0, 1), asOf))
}
