// Package rewards derives reward credits from waste contributions and
// tracks their redemption state. Rewards are plain records; the balance is
// always recomputed from the unredeemed set, never stored.
package rewards

import (
	"errors"
	"math"

	"github.com/ecosort/ecosort/internal/store"
)

// ErrNotFound is returned when redeeming a reward ID that does not exist.
var ErrNotFound = errors.New("reward not found")

// Generate creates one reward per contribution. The amount is the
// contribution weight times the category's reward rate, rounded half-up to
// the nearest whole currency unit. Category and timestamp are copied from
// the source contribution; every generated reward starts unredeemed.
// The ids function supplies an ID for each reward, typically the reward
// collection's NextID.
func Generate(contribs []store.Contribution, ids func() string) []store.Reward {
	out := make([]store.Reward, 0, len(contribs))
	for _, c := range contribs {
		out = append(out, store.Reward{
			ID:        ids(),
			UserID:    c.UserID,
			Amount:    int(math.Round(c.WeightKg * c.Category.RewardPerKg())),
			Category:  c.Category,
			Timestamp: c.Timestamp,
			Redeemed:  false,
		})
	}
	return out
}

// Balance returns the sum of amounts over all unredeemed rewards.
func Balance(rewards []store.Reward) int {
	var total int
	for _, r := range rewards {
		if !r.Redeemed {
			total += r.Amount
		}
	}
	return total
}

// Redeem returns a new slice with the matching reward marked redeemed.
// Redeeming an already-redeemed reward is a no-op on the record; redemption
// is terminal and there is no un-redeem path. Returns ErrNotFound when the
// ID is absent. Callers recompute Balance afterward.
func Redeem(rewards []store.Reward, rewardID string) ([]store.Reward, error) {
	found := false
	out := make([]store.Reward, len(rewards))
	for i, r := range rewards {
		if r.ID == rewardID {
			r.Redeemed = true
			found = true
		}
		out[i] = r
	}
	if !found {
		return nil, ErrNotFound
	}
	return out, nil
}
