// Package filter derives an ordered subset of events from a list and a set of
// criteria. Apply is pure: it never mutates its input.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
)

// PriceMode restricts events by price.
type PriceMode string

const (
	PriceAll  PriceMode = "all"
	PriceFree PriceMode = "free"
	PricePaid PriceMode = "paid"
)

// SortKey orders the filtered result.
type SortKey string

const (
	SortDate       SortKey = "date"
	SortPopularity SortKey = "popularity"
	SortPrice      SortKey = "price"
)

// Criteria is the set of optional predicates applied conjunctively. Zero
// values mean "not supplied".
type Criteria struct {
	Category  string
	Tags      []string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Price     PriceMode
	SortBy    SortKey
}

// Apply returns the events that satisfy every supplied criterion, sorted by
// c.SortBy (date when unset). Ties keep their input order.
func Apply(events []model.Event, c Criteria) []model.Event {
	search := strings.ToLower(c.Search)

	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if matches(e, c, search) {
			out = append(out, e.Clone())
		}
	}

	sort.SliceStable(out, less(out, c.SortBy))
	return out
}

func matches(e model.Event, c Criteria, search string) bool {
	if c.Category != "" && e.Category != c.Category {
		return false
	}
	if len(c.Tags) > 0 && !hasAnyTag(e.Tags, c.Tags) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(e.Title), search) &&
		!strings.Contains(strings.ToLower(e.Description), search) {
		return false
	}
	if c.StartDate != nil && e.StartDate.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && e.StartDate.After(*c.EndDate) {
		return false
	}
	switch c.Price {
	case PriceFree:
		if !e.IsFree() {
			return false
		}
	case PricePaid:
		if e.IsFree() {
			return false
		}
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func less(events []model.Event, key SortKey) func(i, j int) bool {
	switch key {
	case SortPopularity:
		return func(i, j int) bool {
			return events[i].CurrentAttendees > events[j].CurrentAttendees
		}
	case SortPrice:
		return func(i, j int) bool {
			return events[i].EffectivePrice() < events[j].EffectivePrice()
		}
	default:
		return func(i, j int) bool {
			return events[i].StartDate.Before(events[j].StartDate)
		}
	}
}
