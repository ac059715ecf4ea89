package store

import "github.com/ecosort/ecosort/internal/waste"

// User is a registered account: a citizen, vendor, or authority.
// Passwords are stored and compared in plaintext; there is no credential
// hardening in this system. They round-trip through admin state snapshots;
// handlers never include full User records in API responses.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	Role         string     `json:"role"` // user, vendor, authority
	RewardPoints int        `json:"reward_points"`
	WasteStats   WasteStats `json:"waste_stats"`
	CreatedAt    string     `json:"created_at"`
}

// WasteStats is the per-user running total of logged waste.
type WasteStats struct {
	TotalKg   float64                    `json:"total_kg"`
	Breakdown map[waste.Category]float64 `json:"breakdown"`
}

// Contribution is a single logged waste-disposal event. Immutable once
// created.
type Contribution struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Category  waste.Category `json:"category"`
	WeightKg  float64        `json:"weight_kg"`
	Timestamp string         `json:"timestamp"` // RFC3339
	BinID     string         `json:"bin_id"`
}

// Bin is a smart bin with independent per-category fill levels.
// Fill levels are percentages of the declared capacity and are not clamped;
// repeated drops can push a category past 100.
type Bin struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Lat        float64                    `json:"lat"`
	Lng        float64                    `json:"lng"`
	Address    string                     `json:"address"`
	Status     string                     `json:"status"` // online, offline
	LastSynced string                     `json:"last_synced"`
	FillLevels map[waste.Category]float64 `json:"fill_levels"`
	CapacityKg map[waste.Category]float64 `json:"capacity_kg"`
}

// Bin status values.
const (
	BinOnline  = "online"
	BinOffline = "offline"
)

// Reward is a currency credit generated 1:1 from a contribution. Category
// and timestamp are copied from the source contribution. Once redeemed it
// stays redeemed.
type Reward struct {
	ID       string         `json:"id"`
	UserID   string         `json:"user_id"`
	Amount   int            `json:"amount"`
	Category waste.Category `json:"category"`
	// Timestamp mirrors the originating contribution, not the creation time
	// of the reward record.
	Timestamp string `json:"timestamp"`
	Redeemed  bool   `json:"redeemed"`
}

// Coupon is a static catalog entry redeemable against reward points.
type Coupon struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Value          int    `json:"value"`
	RequiredPoints int    `json:"required_points"`
}

// VendorRequest is a vendor's ask for recyclable stock. Status moves
// pending -> fulfilled or pending -> cancelled and is terminal thereafter.
type VendorRequest struct {
	ID          string         `json:"id"`
	VendorID    string         `json:"vendor_id"`
	Category    waste.Category `json:"category"`
	QuantityKg  float64        `json:"quantity_kg"`
	Status      string         `json:"status"`
	CreatedAt   string         `json:"created_at"`
	FulfilledAt string         `json:"fulfilled_at,omitempty"`
}

// Vendor request status values.
const (
	RequestPending   = "pending"
	RequestFulfilled = "fulfilled"
	RequestCancelled = "cancelled"
)
