// Package pricing holds the rental fee table. A 15 minute grace window is
// added to each nominal plan length before the next tier kicks in, so a
// 1h plan actually covers up to 1h15m, and so on.
package pricing

import "github.com/FuseKota/omen-manage/model"

// Compute picks the plan and fee for a finished rental. The category does
// not change the fee today but stays in the signature so per-category
// tiers can be added without touching callers. Boundaries are inclusive:
// exactly 75 minutes is still the 1h plan.
func Compute(category model.Category, usedMinutes int) (model.Plan, int) {
	hours := float64(usedMinutes) / 60

	switch {
	case hours <= 1.25:
		return model.Plan1H, 100
	case hours <= 3.25:
		return model.Plan3H, 200
	case hours <= 6.25:
		return model.Plan6H, 300
	default:
		return model.PlanAllDay, 400
	}
}
