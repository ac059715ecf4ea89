package store

import (
	"encoding/json"
	"time"

	"github.com/ecosort/ecosort/internal/waste"
)

// MemoryStore holds all application state in memory. Each record type lives
// in its own collection; there is no cross-collection transaction support.
type MemoryStore struct {
	Users          *Collection[User]
	Bins           *Collection[Bin]
	Contributions  *Collection[Contribution]
	Rewards        *Collection[Reward]
	Coupons        *Collection[Coupon]
	VendorRequests *Collection[VendorRequest]
	Clock          *Clock
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		Users:          NewCollection[User]("user"),
		Bins:           NewCollection[Bin]("bin"),
		Contributions:  NewCollection[Contribution]("drop"),
		Rewards:        NewCollection[Reward]("rwd"),
		Coupons:        NewCollection[Coupon]("coupon"),
		VendorRequests: NewCollection[VendorRequest]("req"),
		Clock:          NewClock(),
	}
}

// GetUserByEmail returns the user with the given email, or nil.
func (s *MemoryStore) GetUserByEmail(email string) *User {
	users := s.Users.Filter(func(_ string, u User) bool {
		return u.Email == email
	})
	if len(users) == 0 {
		return nil
	}
	return &users[0]
}

// ContributionsByUser returns all contributions logged by the given user,
// in insertion order.
func (s *MemoryStore) ContributionsByUser(userID string) []Contribution {
	return s.Contributions.Filter(func(_ string, c Contribution) bool {
		return c.UserID == userID
	})
}

// RewardsByUser returns all rewards belonging to the given user.
func (s *MemoryStore) RewardsByUser(userID string) []Reward {
	return s.Rewards.Filter(func(_ string, r Reward) bool {
		return r.UserID == userID
	})
}

// RequestsByVendor returns all requests submitted by the given vendor.
func (s *MemoryStore) RequestsByVendor(vendorID string) []VendorRequest {
	return s.VendorRequests.Filter(func(_ string, r VendorRequest) bool {
		return r.VendorID == vendorID
	})
}

type stateSnapshot struct {
	Users          map[string]User          `json:"users"`
	Bins           map[string]Bin           `json:"bins"`
	Contributions  map[string]Contribution  `json:"contributions"`
	Rewards        map[string]Reward        `json:"rewards"`
	Coupons        map[string]Coupon        `json:"coupons"`
	VendorRequests map[string]VendorRequest `json:"vendor_requests"`
}

// Snapshot returns the full state as a JSON-serializable value.
func (s *MemoryStore) Snapshot() any {
	return stateSnapshot{
		Users:          s.Users.Snapshot(),
		Bins:           s.Bins.Snapshot(),
		Contributions:  s.Contributions.Snapshot(),
		Rewards:        s.Rewards.Snapshot(),
		Coupons:        s.Coupons.Snapshot(),
		VendorRequests: s.VendorRequests.Snapshot(),
	}
}

// LoadState replaces state from a JSON snapshot. Collections absent from
// the snapshot are left untouched.
func (s *MemoryStore) LoadState(data []byte) error {
	var snap stateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if snap.Users != nil {
		s.Users.LoadSnapshot(snap.Users)
	}
	if snap.Bins != nil {
		s.Bins.LoadSnapshot(snap.Bins)
	}
	if snap.Contributions != nil {
		s.Contributions.LoadSnapshot(snap.Contributions)
	}
	if snap.Rewards != nil {
		s.Rewards.LoadSnapshot(snap.Rewards)
	}
	if snap.Coupons != nil {
		s.Coupons.LoadSnapshot(snap.Coupons)
	}
	if snap.VendorRequests != nil {
		s.VendorRequests.LoadSnapshot(snap.VendorRequests)
	}
	return nil
}

// Reset clears all state and reloads the seed fixtures.
func (s *MemoryStore) Reset() {
	s.Users.Reset()
	s.Bins.Reset()
	s.Contributions.Reset()
	s.Rewards.Reset()
	s.Coupons.Reset()
	s.VendorRequests.Reset()
	s.Clock.Reset()
	s.SeedDefaults()
}

// SeedDefaults populates the store with fixture data: three accounts, five
// bins, a month of contributions with matching rewards, the coupon catalog,
// and a few vendor requests. All fixture timestamps are relative to the
// store clock so window aggregation behaves the same whenever the seed runs.
func (s *MemoryStore) SeedDefaults() {
	now := s.Clock.Now()
	ts := now.Format(time.RFC3339)

	citizenID := s.Users.NextID()
	s.Users.Set(citizenID, User{
		ID: citizenID, Name: "Alex Singh", Email: "alex@example.com",
		Password: "password123", Role: "user", RewardPoints: 240,
		WasteStats: WasteStats{Breakdown: make(map[waste.Category]float64)},
		CreatedAt:  ts,
	})

	vendorID := s.Users.NextID()
	s.Users.Set(vendorID, User{
		ID: vendorID, Name: "Riva Recyclers", Email: "vendor@example.com",
		Password: "password123", Role: "vendor",
		WasteStats: WasteStats{Breakdown: make(map[waste.Category]float64)},
		CreatedAt:  ts,
	})

	authorityID := s.Users.NextID()
	s.Users.Set(authorityID, User{
		ID: authorityID, Name: "City Waste Authority", Email: "authority@example.com",
		Password: "password123", Role: "authority",
		WasteStats: WasteStats{Breakdown: make(map[waste.Category]float64)},
		CreatedAt:  ts,
	})

	seedBins := []struct {
		name     string
		lat, lng float64
		address  string
		status   string
		fill     map[waste.Category]float64
		capacity map[waste.Category]float64
	}{
		{
			name: "Central Park Smart Bin", lat: 27.7172, lng: 85.3240,
			address: "Central Park", status: BinOnline,
			fill:     map[waste.Category]float64{waste.Organic: 75, waste.Plastic: 45, waste.Glass: 30, waste.Metal: 20, waste.Paper: 60, waste.EWaste: 10},
			capacity: map[waste.Category]float64{waste.Organic: 50, waste.Plastic: 30, waste.Glass: 20, waste.Metal: 15, waste.Paper: 25, waste.EWaste: 10},
		},
		{
			name: "City Mall Smart Bin", lat: 27.7120, lng: 85.3210,
			address: "City Mall, New Road", status: BinOnline,
			fill:     map[waste.Category]float64{waste.Organic: 90, waste.Plastic: 85, waste.Glass: 20, waste.Metal: 30, waste.Paper: 70, waste.EWaste: 25},
			capacity: map[waste.Category]float64{waste.Organic: 60, waste.Plastic: 40, waste.Glass: 25, waste.Metal: 20, waste.Paper: 30, waste.EWaste: 15},
		},
		{
			name: "University Campus Bin", lat: 27.7190, lng: 85.3300,
			address: "University Campus", status: BinOffline,
			fill:     map[waste.Category]float64{waste.Organic: 40, waste.Plastic: 60, waste.Glass: 10, waste.Metal: 5, waste.Paper: 90, waste.EWaste: 20},
			capacity: map[waste.Category]float64{waste.Organic: 40, waste.Plastic: 35, waste.Glass: 15, waste.Metal: 10, waste.Paper: 40, waste.EWaste: 10},
		},
		{
			name: "Old Town Tourist Area Bin", lat: 27.7152, lng: 85.3123,
			address: "Old Town", status: BinOnline,
			fill:     map[waste.Category]float64{waste.Organic: 85, waste.Plastic: 90, waste.Glass: 75, waste.Metal: 30, waste.Paper: 45, waste.EWaste: 15},
			capacity: map[waste.Category]float64{waste.Organic: 70, waste.Plastic: 60, waste.Glass: 40, waste.Metal: 20, waste.Paper: 30, waste.EWaste: 10},
		},
		{
			name: "Market Square Bin", lat: 27.6761, lng: 85.3256,
			address: "Market Square", status: BinOnline,
			fill:     map[waste.Category]float64{waste.Organic: 30, waste.Plastic: 25, waste.Glass: 80, waste.Metal: 10, waste.Paper: 20, waste.EWaste: 5},
			capacity: map[waste.Category]float64{waste.Organic: 40, waste.Plastic: 30, waste.Glass: 30, waste.Metal: 15, waste.Paper: 25, waste.EWaste: 10},
		},
	}
	binIDs := make([]string, 0, len(seedBins))
	for _, b := range seedBins {
		id := s.Bins.NextID()
		lastSynced := ts
		if b.status == BinOffline {
			lastSynced = now.Add(-48 * time.Hour).Format(time.RFC3339)
		}
		s.Bins.Set(id, Bin{
			ID: id, Name: b.name, Lat: b.lat, Lng: b.lng, Address: b.address,
			Status: b.status, LastSynced: lastSynced,
			FillLevels: b.fill, CapacityKg: b.capacity,
		})
		binIDs = append(binIDs, id)
	}

	// One month of contributions for the citizen: deterministic weights
	// cycling through categories, one drop per day going backwards.
	citizen, _ := s.Users.Get(citizenID)
	for day := 0; day < 30; day++ {
		cat := waste.Categories[day%len(waste.Categories)]
		weight := 0.2 + 0.1*float64(day%8) // 0.2 .. 0.9 kg
		dropTS := now.Add(-time.Duration(day) * 24 * time.Hour).Format(time.RFC3339)

		dropID := s.Contributions.NextID()
		s.Contributions.Set(dropID, Contribution{
			ID: dropID, UserID: citizenID, Category: cat,
			WeightKg: weight, Timestamp: dropTS, BinID: binIDs[day%len(binIDs)],
		})
		citizen.WasteStats.TotalKg += weight
		citizen.WasteStats.Breakdown[cat] += weight

		rewardID := s.Rewards.NextID()
		s.Rewards.Set(rewardID, Reward{
			ID: rewardID, UserID: citizenID,
			Amount:   int(weight*cat.RewardPerKg() + 0.5),
			Category: cat, Timestamp: dropTS,
			// Fixture-only: mark some rewards redeemed so balances are
			// interesting. Live reward generation always starts unredeemed.
			Redeemed: day%3 == 0,
		})
	}
	s.Users.Set(citizenID, citizen)

	for _, c := range []struct {
		name, desc    string
		value, points int
	}{
		{"Rs. 20 Discount", "Get Rs. 20 off on your next purchase", 20, 50},
		{"Rs. 50 Discount", "Get Rs. 50 off on your next purchase", 50, 100},
		{"Rs. 100 Discount", "Get Rs. 100 off on your next purchase", 100, 200},
	} {
		id := s.Coupons.NextID()
		s.Coupons.Set(id, Coupon{
			ID: id, Name: c.name, Description: c.desc,
			Value: c.value, RequiredPoints: c.points,
		})
	}

	for _, r := range []struct {
		category waste.Category
		quantity float64
		status   string
		ageDays  int
	}{
		{waste.Paper, 300, RequestPending, 2},
		{waste.Plastic, 200, RequestFulfilled, 5},
		{waste.Metal, 150, RequestPending, 1},
		{waste.EWaste, 50, RequestCancelled, 7},
	} {
		id := s.VendorRequests.NextID()
		req := VendorRequest{
			ID: id, VendorID: vendorID, Category: r.category,
			QuantityKg: r.quantity, Status: r.status,
			CreatedAt: now.Add(-time.Duration(r.ageDays) * 24 * time.Hour).Format(time.RFC3339),
		}
		if r.status == RequestFulfilled {
			req.FulfilledAt = now.Add(-time.Duration(r.ageDays-2) * 24 * time.Hour).Format(time.RFC3339)
		}
		s.VendorRequests.Set(id, req)
	}
}
