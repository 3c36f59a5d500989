package factories

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/repositories/memory"
)

var fixtureNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

var smallCounts = models.FixturesConfig{
	Customers: 20, Drivers: 6, Restaurants: 4, Orders: 35,
	Ratings: 30, Notifications: 12, Rewards: 8, UserRewards: 25,
}

func TestBuildCounts(t *testing.T) {
	fx := New(42, fixtureNow).Build(smallCounts, "admin-1")

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"users", len(fx.Users), 30},
		{"orders", len(fx.Orders), 35},
		{"ratings", len(fx.Ratings), 30},
		{"notifications", len(fx.Notifications), 12},
		{"rewards", len(fx.Rewards), 8},
		{"userRewards", len(fx.UserRewards), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("len = %d, want %d", tt.got, tt.want)
			}
		})
	}
	if want := 30 + 35 + 30 + 12 + len(fx.Templates) + 8 + 25; fx.Total() != want {
		t.Errorf("Total() = %d, want %d", fx.Total(), want)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := New(7, fixtureNow).Build(smallCounts, "admin-1")
	b := New(7, fixtureNow).Build(smallCounts, "admin-1")
	for i := range a.Users {
		if a.Users[i].Name != b.Users[i].Name || a.Users[i].Email != b.Users[i].Email {
			t.Fatalf("user %d differs: %s vs %s", i, a.Users[i].Name, b.Users[i].Name)
		}
	}
	for i := range a.Orders {
		if a.Orders[i].Total != b.Orders[i].Total || !a.Orders[i].CreatedAt.Equal(b.Orders[i].CreatedAt) {
			t.Fatalf("order %d differs", i)
		}
	}
	if got, want := fixtureIDs(b), fixtureIDs(a); !slices.Equal(got, want) {
		t.Errorf("ids differ between builds with the same seed:\n%v\n%v", got, want)
	}
}

func TestIDsSurviveAClockChange(t *testing.T) {
	a := New(7, fixtureNow).Build(smallCounts, "admin-1")
	later := New(7, fixtureNow.Add(90*time.Minute)).Build(smallCounts, "admin-1")
	if got, want := fixtureIDs(later), fixtureIDs(a); !slices.Equal(got, want) {
		t.Errorf("ids depend on now:\n%v\n%v", got, want)
	}

	other := New(8, fixtureNow).Build(smallCounts, "admin-1")
	if slices.Equal(fixtureIDs(other), fixtureIDs(a)) {
		t.Error("different seeds produced identical ids")
	}
}

func TestIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, id := range fixtureIDs(New(11, fixtureNow).Build(smallCounts, "admin-1")) {
		if id == "" || seen[id] {
			t.Fatalf("id %q empty or repeated", id)
		}
		seen[id] = true
	}
}

func TestAnchor(t *testing.T) {
	at := time.Date(2024, 6, 15, 23, 59, 0, 0, time.FixedZone("X", 2*60*60))
	if got, want := Anchor(at), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Anchor() = %v, want %v", got, want)
	}
	if !Anchor(at).Equal(Anchor(at.Add(-time.Hour))) {
		t.Error("Anchor() differs within the same UTC day")
	}
}

func fixtureIDs(fx Fixtures) []string {
	var out []string
	out = appendIDs(out, fx.Users)
	out = appendIDs(out, fx.Orders)
	out = appendIDs(out, fx.Ratings)
	out = appendIDs(out, fx.Notifications)
	out = appendIDs(out, fx.Templates)
	out = appendIDs(out, fx.Rewards)
	return appendIDs(out, fx.UserRewards)
}

func appendIDs[T interface{ GetID() string }](out []string, recs []T) []string {
	for _, r := range recs {
		out = append(out, r.GetID())
	}
	return out
}

func TestOrdersAreConsistent(t *testing.T) {
	fx := New(1, fixtureNow).Build(smallCounts, "admin-1")
	for i, o := range fx.Orders {
		if want := models.OrderStatuses[i%len(models.OrderStatuses)]; o.Status != want {
			t.Errorf("order %d status = %s, want %s", i, o.Status, want)
		}
		if !o.CreatedAt.Before(fixtureNow) {
			t.Errorf("order %d created at %v, not before now", i, o.CreatedAt)
		}
		if !o.LineItemsConsistent() || !o.TotalsConsistent() {
			t.Errorf("order %d totals inconsistent: %+v", i, o)
		}
		if o.Status == models.OrderStatusDelivered && (o.DriverID == "" || o.PaymentStatus != models.PaymentStatusPaid) {
			t.Errorf("delivered order %d = driver %q payment %s", i, o.DriverID, o.PaymentStatus)
		}
	}
}

func TestGeneratedRecordsValidate(t *testing.T) {
	fx := New(3, fixtureNow).Build(smallCounts, "admin-1")
	for _, n := range fx.Notifications {
		if err := n.Validate(fixtureNow); err != nil {
			t.Errorf("notification %s: %v", n.ID, err)
		}
	}
	for _, tmpl := range fx.Templates {
		if err := tmpl.Validate(); err != nil {
			t.Errorf("template %s: %v", tmpl.Name, err)
		}
	}
	for _, r := range fx.Rewards {
		if err := r.Validate(); err != nil {
			t.Errorf("reward %s: %v", r.Name, err)
		}
	}
	for _, r := range fx.Ratings {
		if r.Rating < 1 || r.Rating > 5 {
			t.Errorf("rating %s = %v", r.ID, r.Rating)
		}
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	stores := memory.NewStores()
	fx := New(42, fixtureNow).Build(smallCounts, "admin-1")

	total := 0
	if err := Seed(ctx, stores, fx, func(n int) { total += n }); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if total != fx.Total() {
		t.Errorf("progress total = %d, want %d", total, fx.Total())
	}

	// Seeding again replaces rather than appends.
	if err := Seed(ctx, stores, fx, nil); err != nil {
		t.Fatal(err)
	}
	if n, _ := stores.Orders.Count(ctx); n != len(fx.Orders) {
		t.Errorf("orders Count() = %d, want %d", n, len(fx.Orders))
	}
	if n, _ := stores.Users.Count(ctx); n != len(fx.Users) {
		t.Errorf("users Count() = %d, want %d", n, len(fx.Users))
	}
}
