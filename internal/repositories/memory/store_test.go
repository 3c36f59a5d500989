package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/chrisdamba/foodadmin/internal/models"
)

func seeded(t *testing.T, ids ...string) *Store[models.Reward] {
	t.Helper()
	s := NewStore[models.Reward]("reward")
	records := make([]models.Reward, len(ids))
	for i, id := range ids {
		records[i] = models.Reward{ID: id, Name: "reward " + id}
	}
	if err := s.Insert(context.Background(), records...); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return s
}

func listIDs(t *testing.T, s *Store[models.Reward]) []string {
	t.Helper()
	records, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := seeded(t, "c", "a", "b")
	got := listIDs(t, s)
	want := []string{"c", "a", "b"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestStoreInsertRejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name  string
		batch []models.Reward
	}{
		{"emptyID", []models.Reward{{ID: "x"}, {ID: ""}}},
		{"duplicateInBatch", []models.Reward{{ID: "x"}, {ID: "x"}}},
		{"alreadyStored", []models.Reward{{ID: "x"}, {ID: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seeded(t, "a")
			err := s.Insert(context.Background(), tt.batch...)
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("Insert() error = %v, want ErrValidation", err)
			}
			if n, _ := s.Count(context.Background()); n != 1 {
				t.Errorf("Count() = %d after rejected batch, want 1", n)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := seeded(t, "a")
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a", "b")

	got, err := s.Update(ctx, "b", func(r *models.Reward) error {
		r.Name = "renamed"
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "renamed" {
		t.Errorf("Update() returned %q", got.Name)
	}
	stored, _ := s.Get(ctx, "b")
	if stored.Name != "renamed" {
		t.Errorf("stored name = %q", stored.Name)
	}

	boom := errors.New("boom")
	_, err = s.Update(ctx, "b", func(r *models.Reward) error {
		r.Name = "half-done"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	stored, _ = s.Get(ctx, "b")
	if stored.Name != "renamed" {
		t.Errorf("failed update leaked %q into the store", stored.Name)
	}

	_, err = s.Update(ctx, "b", func(r *models.Reward) error {
		r.ID = "other"
		return nil
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("id change error = %v, want ErrValidation", err)
	}

	if _, err := s.Update(ctx, "zzz", func(*models.Reward) error { return nil }); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStoreDeleteReindexes(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a", "b", "c")
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	c, err := s.Get(ctx, "c")
	if err != nil || c.ID != "c" {
		t.Errorf("Get(c) after delete = %+v, %v", c, err)
	}
	if got := listIDs(t, s); fmt.Sprint(got) != "[b c]" {
		t.Errorf("List() = %v", got)
	}

	if err := s.DeleteAll(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("Count() after DeleteAll = %d", n)
	}
}

func TestStoreConcurrentUpdatesAreAtomic(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, "a")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, "a", func(r *models.Reward) error {
				r.UsageLimit++
				return nil
			})
		}()
	}
	wg.Wait()

	r, _ := s.Get(ctx, "a")
	if r.UsageLimit != workers {
		t.Errorf("UsageLimit = %d, want %d", r.UsageLimit, workers)
	}
}

func TestStoreDoesNotShareSlices(t *testing.T) {
	ctx := context.Background()
	s := NewStore[models.Order]("order")
	items := []models.LineItem{{MenuItemID: "m1", Name: "Margherita", Quantity: 1, UnitPrice: 9, Total: 9}}
	if err := s.Insert(ctx, models.Order{ID: "o1", Items: items}); err != nil {
		t.Fatal(err)
	}
	items[0].Name = "changed after insert"

	got, err := s.Get(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	got.Items[0].Name = "changed after get"

	listed, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	listed[0].Items[0].Quantity = 99

	_, err = s.Update(ctx, "o1", func(o *models.Order) error {
		o.Items[0].UnitPrice = 1
		return errors.New("abandoned")
	})
	if err == nil {
		t.Fatal("Update() error = nil, want abandoned")
	}

	stored, err := s.Get(ctx, "o1")
	if err != nil {
		t.Fatal(err)
	}
	if want := (models.LineItem{MenuItemID: "m1", Name: "Margherita", Quantity: 1, UnitPrice: 9, Total: 9}); stored.Items[0] != want {
		t.Errorf("stored item = %+v, want %+v", stored.Items[0], want)
	}
}

func TestStoreDoesNotSharePointers(t *testing.T) {
	ctx := context.Background()
	s := NewStore[models.DriverRating]("rating")
	score := 4.0
	if err := s.Insert(ctx, models.DriverRating{ID: "r1", Punctuality: &score, Images: []string{"a.jpg"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	*got.Punctuality = 1
	got.Images[0] = "b.jpg"

	stored, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if *stored.Punctuality != 4 || stored.Images[0] != "a.jpg" {
		t.Errorf("stored = punctuality %v images %v, want 4 [a.jpg]", *stored.Punctuality, stored.Images)
	}
}
