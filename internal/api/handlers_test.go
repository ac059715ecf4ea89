package api_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/ecosort/ecosort/internal/admin"
	"github.com/ecosort/ecosort/internal/api"
	"github.com/ecosort/ecosort/internal/config"
	"github.com/ecosort/ecosort/internal/notify"
	"github.com/ecosort/ecosort/internal/server"
	"github.com/ecosort/ecosort/internal/store"
	"github.com/ecosort/ecosort/internal/testutil"
)

func setupServer(t *testing.T) (*testutil.Client, *testutil.AdminClient, *notify.Dispatcher) {
	t.Helper()
	memStore := store.New()
	memStore.SeedDefaults()

	cfg := config.Default()
	srv := server.New(cfg)
	dispatcher := notify.NewDispatcher(notify.Config{})

	handler := api.NewHandler(memStore, cfg, dispatcher)
	handler.Routes(srv.Router)
	adminHandler := admin.NewHandler(memStore, srv.RequestLog(), memStore.Clock)
	adminHandler.SetFlusher(dispatcher)
	adminHandler.Routes(srv.Router)

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	tc := testutil.NewClient(t, ts)
	ac := testutil.NewAdminClient(tc)
	return tc, ac, dispatcher
}

// --- Account tests ---

func TestRegisterAndSignIn(t *testing.T) {
	tc, _, _ := setupServer(t)

	resp := tc.Post("/api/users/register", map[string]any{
		"name":     "Nina Rana",
		"email":    "nina@example.com",
		"password": "s3cret",
	})
	resp.AssertStatus(201)
	m := resp.JSONMap()
	if m["role"] != "user" {
		t.Errorf("expected default role user, got %v", m["role"])
	}
	if m["redirect"] != "/dashboard" {
		t.Errorf("expected /dashboard redirect, got %v", m["redirect"])
	}

	resp = tc.Post("/api/users/signin", map[string]any{
		"email":    "nina@example.com",
		"password": "s3cret",
	})
	resp.AssertStatus(200)
	if token, _ := resp.JSONMap()["token"].(string); token == "" {
		t.Error("expected a session token")
	}
}

func TestRegisterValidation(t *testing.T) {
	tc, _, _ := setupServer(t)

	tc.Post("/api/users/register", map[string]any{
		"name": "No Email", "password": "x",
	}).AssertStatus(400)

	tc.Post("/api/users/register", map[string]any{
		"name": "X", "email": "x@example.com", "password": "x", "role": "admin",
	}).AssertStatus(400)

	// Duplicate of a seeded account
	tc.Post("/api/users/register", map[string]any{
		"name": "Alex Again", "email": "alex@example.com", "password": "x",
	}).AssertStatus(409)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	tc, _, _ := setupServer(t)

	tc.Post("/api/users/signin", map[string]any{
		"email": "alex@example.com", "password": "wrong",
	}).AssertStatus(401)

	tc.Post("/api/users/signin", map[string]any{
		"email": "nobody@example.com", "password": "password123",
	}).AssertStatus(401)

	// Role mismatch is treated like a bad password
	tc.Post("/api/users/signin", map[string]any{
		"email": "alex@example.com", "password": "password123", "role": "authority",
	}).AssertStatus(401)
}

func TestVendorRedirect(t *testing.T) {
	tc, _, _ := setupServer(t)

	resp := tc.Post("/api/users/signin", map[string]any{
		"email": "vendor@example.com", "password": "password123",
	})
	resp.AssertStatus(200)
	if got := resp.JSONMap()["redirect"]; got != "/vendor/dashboard" {
		t.Errorf("expected vendor redirect, got %v", got)
	}
}

func TestUserDetails(t *testing.T) {
	tc, _, _ := setupServer(t)

	tc.Get("/api/users/details").AssertStatus(400)
	tc.Get("/api/users/details?email=nobody@example.com").AssertStatus(404)

	resp := tc.Get("/api/users/details?email=alex@example.com")
	resp.AssertStatus(200)
	m := resp.JSONMap()
	if m["name"] != "Alex Singh" {
		t.Errorf("expected Alex Singh, got %v", m["name"])
	}
	if _, hasPassword := m["password"]; hasPassword {
		t.Error("details must not expose the password")
	}
}

func TestAuthRequired(t *testing.T) {
	tc, _, _ := setupServer(t)

	tc.Get("/api/waste").AssertStatus(401)
	tc.WithToken("not-a-token").Get("/api/waste").AssertStatus(401)
}

func TestSessionExpiresWithClock(t *testing.T) {
	tc, ac, _ := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	authed.Get("/api/waste").AssertStatus(200)

	ac.AdvanceTime("25h").AssertStatus(200)
	authed.Get("/api/waste").AssertStatus(401)
}

// --- Waste logging tests ---

func TestCreateContribution(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	resp := authed.Post("/api/waste", map[string]any{
		"category": "plastic", "weight_kg": 2.0, "bin_id": "bin-000001",
	})
	resp.AssertStatus(201)
	m := resp.JSONMap()
	reward := m["reward"].(map[string]any)
	if reward["amount"].(float64) != 20 {
		t.Errorf("expected reward amount 20 for 2kg plastic, got %v", reward["amount"])
	}

	// The drop raises the bin's plastic fill level from 45 to 47.
	bins := tc.Get("/api/bins").JSONMap()["bins"].([]any)
	first := bins[0].(map[string]any)
	fill := first["fill_levels"].(map[string]any)
	if fill["plastic"].(float64) != 47 {
		t.Errorf("expected plastic fill 47, got %v", fill["plastic"])
	}
}

func TestCreateContributionValidation(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	authed.Post("/api/waste", map[string]any{
		"category": "styrofoam", "weight_kg": 1.0,
	}).AssertStatus(400)

	authed.Post("/api/waste", map[string]any{
		"category": "plastic", "weight_kg": 0.0,
	}).AssertStatus(422)

	authed.Post("/api/waste", map[string]any{
		"category": "plastic", "weight_kg": 1.0, "bin_id": "bin-999999",
	}).AssertStatus(404)
}

func TestFillAlertFiresAtThreshold(t *testing.T) {
	tc, _, dispatcher := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	// City Mall plastic sits at 85; a 6kg drop crosses the 90 threshold.
	authed.Post("/api/waste", map[string]any{
		"category": "plastic", "weight_kg": 6.0, "bin_id": "bin-000002",
	}).AssertStatus(201)

	events := dispatcher.QueuedEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 queued alert, got %d", len(events))
	}
	if events[0].Type != "bin.fill_alert" {
		t.Errorf("expected bin.fill_alert, got %s", events[0].Type)
	}
	if events[0].Payload["bin_id"] != "bin-000002" {
		t.Errorf("expected bin-000002, got %v", events[0].Payload["bin_id"])
	}
}

func TestListContributions(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	resp := authed.Get("/api/waste")
	resp.AssertStatus(200)
	m := resp.JSONMap()
	contribs := m["contributions"].([]any)
	if len(contribs) != 30 {
		t.Fatalf("expected 30 seeded contributions, got %d", len(contribs))
	}
	if math.Abs(m["total_kg"].(float64)-15.9) > 1e-6 {
		t.Errorf("expected total 15.9, got %v", m["total_kg"])
	}

	resp = authed.Get("/api/waste?days=bogus")
	resp.AssertStatus(400)

	// The vendor account has no drops of its own.
	resp = authed.Get("/api/waste?user_id=user-000002")
	resp.AssertStatus(200)
	if got := resp.JSONMap()["contributions"].([]any); len(got) != 0 {
		t.Errorf("expected no contributions for the vendor, got %d", len(got))
	}
}

// --- Bin tests ---

func TestListBins(t *testing.T) {
	tc, _, _ := setupServer(t)

	resp := tc.Get("/api/bins")
	resp.AssertStatus(200)
	bins := resp.JSONMap()["bins"].([]any)
	if len(bins) != 5 {
		t.Errorf("expected 5 seeded bins, got %d", len(bins))
	}
}

func TestCreateBin(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("authority@example.com", "password123")

	authed.Post("/api/bins", map[string]any{
		"name": "Missing Address Bin",
	}).AssertStatus(400)

	authed.Post("/api/bins", map[string]any{
		"name": "Bad Capacity Bin", "address": "Somewhere",
		"capacity_kg": map[string]float64{"styrofoam": 10},
	}).AssertStatus(400)

	resp := authed.Post("/api/bins", map[string]any{
		"name": "Riverside Bin", "address": "Riverside Walk",
		"lat": 27.70, "lng": 85.31,
		"capacity_kg": map[string]float64{"organic": 40, "plastic": 25},
	})
	resp.AssertStatus(201)
	m := resp.JSONMap()
	if m["status"] != "online" {
		t.Errorf("new bins start online, got %v", m["status"])
	}
}

func TestUpdateBinStatus(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("authority@example.com", "password123")

	authed.Patch("/api/bins/bin-999999/status", map[string]any{
		"status": "offline",
	}).AssertStatus(404)

	authed.Patch("/api/bins/bin-000001/status", map[string]any{
		"status": "broken",
	}).AssertStatus(400)

	resp := authed.Patch("/api/bins/bin-000001/status", map[string]any{
		"status": "offline",
	})
	resp.AssertStatus(200)
	if got := resp.JSONMap()["status"]; got != "offline" {
		t.Errorf("expected offline, got %v", got)
	}
}

func TestFleetCapacity(t *testing.T) {
	tc, _, _ := setupServer(t)

	resp := tc.Get("/api/bins/capacity")
	resp.AssertStatus(200)
	capacity := resp.JSONMap()["capacity"].(map[string]any)
	organic := capacity["organic"].(map[string]any)

	// Across the five seeded bins: 37.5 + 54 + 16 + 59.5 + 12 filled.
	if got := organic["filled_kg"].(float64); math.Abs(got-179.0) > 1e-6 {
		t.Errorf("expected 179.0 kg organic filled, got %v", got)
	}
	if got := organic["available_kg"].(float64); math.Abs(got-81.0) > 1e-6 {
		t.Errorf("expected 81.0 kg organic available, got %v", got)
	}
}

// --- Impact tests ---

func TestImpactSummary(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	authed.Get("/api/impact/user-999999").AssertStatus(404)
	authed.Get("/api/impact/user-000001?window=yearly").AssertStatus(400)

	resp := authed.Get("/api/impact/user-000001")
	resp.AssertStatus(200)
	m := resp.JSONMap()
	if math.Abs(m["total_kg"].(float64)-15.9) > 1e-6 {
		t.Errorf("expected lifetime total 15.9, got %v", m["total_kg"])
	}
	badge := m["badge"].(map[string]any)
	if badge["level"] != "Eco Champion" {
		t.Errorf("expected Eco Champion at 15.9kg, got %v", badge["level"])
	}

	weekly := authed.Get("/api/impact/user-000001?window=weekly").JSONMap()
	monthly := authed.Get("/api/impact/user-000001?window=monthly").JSONMap()
	if weekly["total_kg"].(float64) >= monthly["total_kg"].(float64) {
		t.Errorf("weekly total %v should be below monthly total %v",
			weekly["total_kg"], monthly["total_kg"])
	}
	// The badge is lifetime-based and does not shrink with the window.
	weeklyBadge := weekly["badge"].(map[string]any)
	if weeklyBadge["level"] != "Eco Champion" {
		t.Errorf("expected lifetime badge in weekly view, got %v", weeklyBadge["level"])
	}
}

// --- Reward tests ---

func TestRewardHistoryAndBalance(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	resp := authed.Get("/api/rewards/user-000001")
	resp.AssertStatus(200)
	m := resp.JSONMap()
	if got := m["rewards"].([]any); len(got) != 30 {
		t.Errorf("expected 30 seeded rewards, got %d", len(got))
	}
	if m["balance"].(float64) <= 0 {
		t.Errorf("expected a positive balance, got %v", m["balance"])
	}

	authed.Get("/api/rewards/user-999999").AssertStatus(404)
}

func TestRedeemReward(t *testing.T) {
	tc, _, _ := setupServer(t)
	authed := tc.SignIn("alex@example.com", "password123")

	before := authed.Get("/api/rewards/user-000001").JSONMap()["balance"].(float64)

	// rwd-000002 is seeded unredeemed: 0.3kg plastic, worth 3.
	resp := authed.Post("/api/rewards/user-000001/redeem", map[string]any{
		"reward_id": "rwd-000002",
	})
	resp.AssertStatus(200)
	m := resp.JSONMap()
	if m["balance"].(float64) != before-3 {
		t.Errorf("expected balance %v, got %v", before-3, m["balance"])
	}
	if code, _ := m["coupon_code"].(string); code == "" {
		t.Error("expected a coupon code")
	}
	reward := m["reward"].(map[string]any)
	if reward["redeemed"] != true {
		t.Error("expected the reward to be marked redeemed")
	}

	// Redeeming again changes nothing.
	again := authed.Post("/api/rewards/user-000001/redeem", map[string]any{
		"reward_id": "rwd-000002",
	})
	again.AssertStatus(200)
	if got := again.JSONMap()["balance"].(float64); got != before-3 {
		t.Errorf("re-redeem must not change the balance, got %v", got)
	}

	authed.Post("/api/rewards/user-000001/redeem", map[string]any{
		"reward_id": "rwd-999999",
	}).AssertStatus(404)

	authed.Post("/api/rewards/user-000001/redeem", map[string]any{}).AssertStatus(400)
}

func TestListCoupons(t *testing.T) {
	tc, _, _ := setupServer(t)

	resp := tc.Get("/api/coupons")
	resp.AssertStatus(200)
	coupons := resp.JSONMap()["coupons"].([]any)
	if len(coupons) != 3 {
		t.Errorf("expected 3 seeded coupons, got %d", len(coupons))
	}
}

// --- Vendor request tests ---

func TestVendorRequestLifecycle(t *testing.T) {
	tc, _, _ := setupServer(t)
	vendor := tc.SignIn("vendor@example.com", "password123")

	resp := vendor.Get("/api/vendors/requests")
	resp.AssertStatus(200)
	if got := resp.JSONMap()["requests"].([]any); len(got) != 4 {
		t.Fatalf("expected 4 seeded requests, got %d", len(got))
	}

	resp = vendor.Post("/api/vendors/requests", map[string]any{
		"category": "glass", "quantity_kg": 120.0,
	})
	resp.AssertStatus(201)
	created := resp.JSONMap()
	if created["status"] != "pending" {
		t.Errorf("new requests start pending, got %v", created["status"])
	}

	id := created["id"].(string)
	resp = vendor.Post("/api/vendors/requests/"+id+"/fulfill", nil)
	resp.AssertStatus(200)
	m := resp.JSONMap()
	if m["status"] != "fulfilled" {
		t.Errorf("expected fulfilled, got %v", m["status"])
	}
	if m["fulfilled_at"] == "" {
		t.Error("expected a fulfilled_at timestamp")
	}

	// Terminal states reject further transitions.
	vendor.Post("/api/vendors/requests/"+id+"/fulfill", nil).AssertStatus(422)
	vendor.Post("/api/vendors/requests/"+id+"/cancel", nil).AssertStatus(422)
}

func TestVendorRequestValidation(t *testing.T) {
	tc, _, _ := setupServer(t)
	vendor := tc.SignIn("vendor@example.com", "password123")

	vendor.Post("/api/vendors/requests", map[string]any{
		"category": "styrofoam", "quantity_kg": 10.0,
	}).AssertStatus(400)

	vendor.Post("/api/vendors/requests", map[string]any{
		"category": "glass", "quantity_kg": -5.0,
	}).AssertStatus(422)

	vendor.Post("/api/vendors/requests/req-999999/fulfill", nil).AssertStatus(404)
}

func TestCancelPendingRequest(t *testing.T) {
	tc, _, _ := setupServer(t)
	vendor := tc.SignIn("vendor@example.com", "password123")

	resp := vendor.Post("/api/vendors/requests/req-000003/cancel", nil)
	resp.AssertStatus(200)
	if got := resp.JSONMap()["status"]; got != "cancelled" {
		t.Errorf("expected cancelled, got %v", got)
	}

	// The fulfilled seed request cannot be cancelled.
	vendor.Post("/api/vendors/requests/req-000002/cancel", nil).AssertStatus(422)
}

// --- Admin control plane tests ---

func TestAdminResetRestoresSeeds(t *testing.T) {
	tc, ac, _ := setupServer(t)

	tc.Post("/api/users/register", map[string]any{
		"name": "Temp", "email": "temp@example.com", "password": "x",
	}).AssertStatus(201)

	ac.Reset().AssertStatus(200)

	tc.Get("/api/users/details?email=temp@example.com").AssertStatus(404)
	tc.Get("/api/users/details?email=alex@example.com").AssertStatus(200)
}

func TestAdminStateRoundTrip(t *testing.T) {
	tc, ac, _ := setupServer(t)

	state := ac.GetState()
	state.AssertStatus(200)
	var snapshot map[string]any
	state.JSON(&snapshot)

	// Mutate, then restore the snapshot.
	authed := tc.SignIn("alex@example.com", "password123")
	authed.Post("/api/waste", map[string]any{
		"category": "glass", "weight_kg": 1.0,
	}).AssertStatus(201)

	ac.LoadState(snapshot).AssertStatus(200)

	resp := authed.Get("/api/waste")
	resp.AssertStatus(200)
	if got := resp.JSONMap()["contributions"].([]any); len(got) != 30 {
		t.Errorf("expected the restored 30 contributions, got %d", len(got))
	}

	// Sign-in still works after restore.
	tc.SignIn("alex@example.com", "password123")
}

func TestAdminTime(t *testing.T) {
	_, ac, _ := setupServer(t)

	ac.AdvanceTime("24h").AssertStatus(200)
	resp := ac.Get("/admin/time")
	resp.AssertStatus(200)
	if got := resp.JSONMap()["offset"]; got != "24h0m0s" {
		t.Errorf("expected 24h offset, got %v", got)
	}

	ac.AdvanceTime("not-a-duration").AssertStatus(400)
}

func TestAdminRequestLog(t *testing.T) {
	tc, ac, _ := setupServer(t)

	tc.Get("/api/bins").AssertStatus(200)

	resp := ac.GetRequests()
	resp.AssertStatus(200)
	var entries []map[string]any
	resp.JSON(&entries)
	if len(entries) == 0 {
		t.Fatal("expected logged requests")
	}
}

func TestAdminHealth(t *testing.T) {
	_, ac, _ := setupServer(t)
	ac.Health().AssertStatus(200).AssertBodyContains("ok")
}

func TestAdminWebhookFlush(t *testing.T) {
	_, ac, _ := setupServer(t)
	ac.FlushWebhooks().AssertStatus(200)
}
