// Package service implements the admin operations for every resource on top
// of the query engine and the entity stores.
package service

import (
	"log/slog"
	"time"

	"github.com/chrisdamba/foodadmin/internal/latency"
	"github.com/chrisdamba/foodadmin/internal/logger"
	"github.com/lucsky/cuid"
)

// Options carries what every service shares.
type Options struct {
	Latency  *latency.Simulator
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
	AdminID  string
	Location *time.Location
}

type base struct {
	latency *latency.Simulator
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
	adminID string
	loc     *time.Location
}

func newBase(opts Options, component string) base {
	b := base{
		latency: opts.Latency,
		log:     opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
		adminID: opts.AdminID,
		loc:     opts.Location,
	}
	if b.latency == nil {
		b.latency = latency.None()
	}
	if b.log == nil {
		b.log = logger.Discard()
	}
	b.log = b.log.With("component", component)
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = cuid.New
	}
	if b.adminID == "" {
		b.adminID = "admin-1"
	}
	if b.loc == nil {
		b.loc = time.UTC
	}
	return b
}

// Default page sizes per list call.
const (
	defaultOrderLimit        = 10
	defaultRatingLimit       = 10
	defaultNotificationLimit = 10
	defaultTemplateLimit     = 20
	defaultRewardLimit       = 20
	defaultAssignmentLimit   = 20
	defaultUserLimit         = 20
)

// Default sizes of ranked views in statistics.
const (
	defaultTopN    = 5
	defaultRecentK = 5
)
