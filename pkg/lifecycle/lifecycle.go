// Package lifecycle holds the pure time-based rules for announcements:
// expiry, visibility, "created today" and the countdown breakdown. All
// functions take the clock as a parameter and have no side effects.
package lifecycle

import (
	"sort"
	"strings"
	"time"

	"github.com/salehq/activityboard/pkg/models"
)

// IsExpired reports whether the announcement has passed its event time plus
// the configured grace window. A zero expiryHours disables expiry entirely.
func IsExpired(a models.Announcement, expiryHours int, now time.Time) bool {
	if expiryHours <= 0 {
		return false
	}
	expiry := a.Date.Add(time.Duration(expiryHours) * time.Hour)
	return !now.Before(expiry)
}

// VisibleTo applies the expiry gate: live announcements are visible to
// everyone, expired ones only to an admin who opted in to seeing them.
func VisibleTo(a models.Announcement, role models.UserRole, expiryHours int, showExpiredAdmin bool, now time.Time) bool {
	if !IsExpired(a, expiryHours, now) {
		return true
	}
	return role == models.RoleAdmin && showExpiredAdmin
}

// IsCreatedToday compares the calendar date of the announcement's creation
// with now, in now's location.
func IsCreatedToday(a models.Announcement, now time.Time) bool {
	created := a.CreatedAt
	if created.IsZero() {
		created = time.UnixMilli(a.ID)
	}
	y1, m1, d1 := created.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Remaining is the non-negative component breakdown of the time until an
// event. All-zero exactly at the event instant, after which Expired is set
// and callers stop recomputing.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Expired bool
}

// Countdown computes the remaining time until target.
func Countdown(target, now time.Time) Remaining {
	d := target.Sub(now)
	if d <= 0 {
		return Remaining{Expired: true}
	}
	secs := int(d.Seconds())
	return Remaining{
		Days:    secs / 86400,
		Hours:   (secs / 3600) % 24,
		Minutes: (secs / 60) % 60,
		Seconds: secs % 60,
	}
}

// FilterOptions selects announcements for display.
type FilterOptions struct {
	Role             models.UserRole
	Category         models.Category // exact match; records tagged "all" always pass
	Query            string          // case-insensitive over title/club/location
	TodayOnly        bool            // events happening on now's calendar date
	ExpiryHours      int
	ShowExpiredAdmin bool
	Now              time.Time
}

// Filter applies the expiry gate, category, search and today filters, then
// sorts newest event first.
func Filter(anns []models.Announcement, opts FilterOptions) []models.Announcement {
	q := strings.ToLower(opts.Query)
	out := make([]models.Announcement, 0, len(anns))
	for _, a := range anns {
		if !VisibleTo(a, opts.Role, opts.ExpiryHours, opts.ShowExpiredAdmin, opts.Now) {
			continue
		}
		if opts.Category != "" && a.Category != opts.Category && a.Category != models.CategoryAll {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.ClubName), q) &&
			!strings.Contains(strings.ToLower(a.Location), q) {
			continue
		}
		if opts.TodayOnly {
			y1, m1, d1 := a.Date.In(opts.Now.Location()).Date()
			y2, m2, d2 := opts.Now.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// CreatedToday returns the announcements created on now's calendar date,
// the daily-newsletter selection.
func CreatedToday(anns []models.Announcement, now time.Time) []models.Announcement {
	out := make([]models.Announcement, 0)
	for _, a := range anns {
		if IsCreatedToday(a, now) {
			out = append(out, a)
		}
	}
	return out
}
