package order

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"drycleaning/internal/domain/pricing"
)

// NewReceiptNumber formats PREFIX-BRANCH-yyyyMMdd-HHmmss-NNN.
func (r Rules) NewReceiptNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%03d",
		strings.ToUpper(r.ReceiptPrefix),
		strings.ToUpper(r.BranchCode),
		now.In(r.location()).Format("20060102-150405"),
		rand.IntN(1000),
	)
}

// ExpectedCompletion returns when an order accepted at createdAt is ready.
// The longest standard term of its categories applies unless the urgency tier promises less;
// the result is moved to the configured hour of day.
func (r Rules) ExpectedCompletion(createdAt time.Time, standardDays []int, tier pricing.UrgencyTier) time.Time {
	days := 2
	for _, d := range standardDays {
		if d > days {
			days = d
		}
	}

	local := createdAt.In(r.location())
	due := local.AddDate(0, 0, days)
	if tier.Hours > 0 {
		due = local.Add(time.Duration(tier.Hours) * time.Hour)
	}

	ready := time.Date(due.Year(), due.Month(), due.Day(), r.CompletionAt, 0, 0, 0, r.location())
	if ready.Before(due) {
		ready = ready.AddDate(0, 0, 1)
	}
	return ready
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}
