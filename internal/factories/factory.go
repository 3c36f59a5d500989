// Package factories generates the fixture data the stores are seeded with.
package factories

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

// Factory produces fixtures relative to a fixed "now". The same seed and
// counts give the same ids, names and amounts in every process, so an id
// listed by one run resolves in the next.
type Factory struct {
	fake faker.Faker
	ids  *rand.Rand
	now  time.Time
}

func New(seed int64, now time.Time) *Factory {
	return &Factory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		ids:  rand.New(rand.NewSource(seed)),
		now:  now,
	}
}

// Anchor truncates t to the start of its UTC day. Fixtures built against it
// keep the same timestamps for the whole day.
func Anchor(t time.Time) time.Time {
	return t.UTC().Truncate(day)
}

// id draws a v4 uuid from the seeded id stream. It has its own source so
// adding records never shifts the generated names or amounts.
func (f *Factory) id() string {
	return uuid.Must(uuid.NewRandomFromReader(f.ids)).String()
}

// chance reports true with probability pct/100.
func (f *Factory) chance(pct int) bool {
	return f.fake.IntBetween(1, 100) <= pct
}

func (f *Factory) pick(items []string) string {
	return items[f.fake.IntBetween(0, len(items)-1)]
}

// timeBefore returns a time between maxAge and minAge before now.
func (f *Factory) timeBefore(minAge, maxAge time.Duration) time.Time {
	return f.fake.Time().TimeBetween(f.now.Add(-maxAge), f.now.Add(-minAge))
}

func money(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

const day = 24 * time.Hour
