package service

import (
	"math"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
)

const clockLayout = "15:04"

// TokenForTime maps a clock time between 09:00 and 16:00 linearly onto
// [TokenMin, TokenMax]. It also returns the time normalized to HH:MM.
func TokenForTime(clock string) (int, string, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, "", errors.BadRequest("Invalid time %q, expected HH:MM", clock)
	}
	minutes := t.Hour()*60 + t.Minute()
	if minutes < domain.SlotOpenMinutes || minutes > domain.SlotCloseMinutes {
		return 0, "", errors.BadRequest("Bookings are accepted between 09:00 and 16:00")
	}
	span := float64(domain.TokenMax - domain.TokenMin)
	window := float64(domain.SlotCloseMinutes - domain.SlotOpenMinutes)
	token := domain.TokenMin + int(math.Round(float64(minutes-domain.SlotOpenMinutes)*span/window))
	return token, t.Format(clockLayout), nil
}

// nextFreeToken returns the first token at or after want that is not taken,
// wrapping around to TokenMin. ok is false when every token is taken.
func nextFreeToken(want int, taken []int) (int, bool) {
	used := make(map[int]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	total := domain.TokenMax - domain.TokenMin + 1
	for i := 0; i < total; i++ {
		candidate := domain.TokenMin + (want-domain.TokenMin+i)%total
		if !used[candidate] {
			return candidate, true
		}
	}
	return 0, false
}
