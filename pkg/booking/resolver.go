package booking

import (
	"context"
	"sync/atomic"

	"github.com/jwalitptl/clinic-booking/pkg/schedule"
)

// ValidDaysSource looks up a clinic's valid weekdays. *client.Client
// implements it.
type ValidDaysSource interface {
	ValidDays(ctx context.Context, clinicID string) ([]string, error)
}

// Resolver issues availability lookups. Each lookup carries a request id
// from a monotonically increasing sequence and only the most recently
// issued one is current, so a slow response for an earlier clinic can be
// recognised and dropped.
type Resolver struct {
	source ValidDaysSource
	seq    atomic.Uint64
}

func NewResolver(source ValidDaysSource) *Resolver {
	return &Resolver{source: source}
}

// Lookup is one availability request.
type Lookup struct {
	ID       uint64
	ClinicID string
	r        *Resolver
}

// Begin supersedes every earlier lookup.
func (r *Resolver) Begin(clinicID string) *Lookup {
	return &Lookup{ID: r.seq.Add(1), ClinicID: clinicID, r: r}
}

// Current reports whether no later lookup has begun.
func (l *Lookup) Current() bool {
	return l.r.seq.Load() == l.ID
}

// Fetch asks the source for the clinic's valid days. A successful result
// is never nil: an empty slice means the clinic has no bookable day.
func (l *Lookup) Fetch(ctx context.Context) ([]string, error) {
	days, err := l.r.source.ValidDays(ctx, l.ClinicID)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []string{}
	}
	return days, nil
}

// Slots returns the daily template when validDays has at least one
// bookable weekday.
func Slots(validDays []string) []string {
	return schedule.SlotsFor(validDays, schedule.DailySlots)
}
