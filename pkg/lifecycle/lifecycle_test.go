package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salehq/activityboard/pkg/models"
)

var eventTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func ann(date time.Time) models.Announcement {
	return models.Announcement{ID: models.NewID(date), Date: date, CreatedAt: date}
}

func TestIsExpiredBoundary(t *testing.T) {
	a := ann(eventTime)
	expiry := eventTime.Add(4 * time.Hour)

	assert.False(t, IsExpired(a, 4, expiry.Add(-time.Second)))
	// The boundary instant itself counts as expired.
	assert.True(t, IsExpired(a, 4, expiry))
	assert.True(t, IsExpired(a, 4, expiry.Add(time.Second)))
}

func TestIsExpiredDisabled(t *testing.T) {
	a := ann(eventTime)
	farFuture := eventTime.Add(10 * 365 * 24 * time.Hour)
	assert.False(t, IsExpired(a, 0, farFuture))
	assert.False(t, IsExpired(a, -1, farFuture))
}

func TestVisibleTo(t *testing.T) {
	a := ann(eventTime)
	afterExpiry := eventTime.Add(5 * time.Hour)

	// Live: visible to everyone.
	assert.True(t, VisibleTo(a, models.RoleStudent, 4, false, eventTime))
	assert.True(t, VisibleTo(a, models.RoleAdmin, 4, false, eventTime))

	// Expired: hidden from students always, shown to admins only on opt-in.
	assert.False(t, VisibleTo(a, models.RoleStudent, 4, false, afterExpiry))
	assert.False(t, VisibleTo(a, models.RoleStudent, 4, true, afterExpiry))
	assert.False(t, VisibleTo(a, models.RoleAdmin, 4, false, afterExpiry))
	assert.True(t, VisibleTo(a, models.RoleAdmin, 4, true, afterExpiry))
}

func TestIsCreatedToday(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)

	today := models.Announcement{CreatedAt: time.Date(2025, 6, 1, 0, 5, 0, 0, time.UTC)}
	yesterday := models.Announcement{CreatedAt: time.Date(2025, 5, 31, 23, 55, 0, 0, time.UTC)}

	assert.True(t, IsCreatedToday(today, now))
	assert.False(t, IsCreatedToday(yesterday, now))
}

func TestIsCreatedTodayFallsBackToID(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	legacy := models.Announcement{ID: now.Add(-time.Hour).UnixMilli()}
	assert.True(t, IsCreatedToday(legacy, now))

	old := models.Announcement{ID: now.Add(-48 * time.Hour).UnixMilli()}
	assert.False(t, IsCreatedToday(old, now))
}

func TestCountdown(t *testing.T) {
	target := eventTime

	r := Countdown(target, target.Add(-(26*time.Hour + 3*time.Minute + 5*time.Second)))
	assert.Equal(t, Remaining{Days: 1, Hours: 2, Minutes: 3, Seconds: 5}, r)

	// At and after the event instant the countdown reports expiry.
	assert.Equal(t, Remaining{Expired: true}, Countdown(target, target))
	assert.Equal(t, Remaining{Expired: true}, Countdown(target, target.Add(time.Minute)))
}

func TestFilter(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	anns := []models.Announcement{
		{ID: 1, Title: "Chess night", Category: models.CategoryMale, ClubName: "Chess Club", Date: now.Add(2 * time.Hour), CreatedAt: now},
		{ID: 2, Title: "Art workshop", Category: models.CategoryFemale, Location: "Hall B", Date: now.Add(26 * time.Hour), CreatedAt: now},
		{ID: 3, Title: "Open day", Category: models.CategoryAll, Date: now.Add(time.Hour), CreatedAt: now},
		{ID: 4, Title: "Last week's talk", Category: models.CategoryMale, Date: now.Add(-7 * 24 * time.Hour), CreatedAt: now},
	}

	base := FilterOptions{Role: models.RoleStudent, ExpiryHours: 4, Now: now}

	t.Run("expiry gate", func(t *testing.T) {
		got := Filter(anns, base)
		assert.Equal(t, []int64{2, 1, 3}, annIDs(got))
	})

	t.Run("category keeps all-tagged records", func(t *testing.T) {
		opts := base
		opts.Category = models.CategoryMale
		got := Filter(anns, opts)
		assert.Equal(t, []int64{1, 3}, annIDs(got))
	})

	t.Run("search is case-insensitive over title club location", func(t *testing.T) {
		opts := base
		opts.Query = "chess"
		assert.Equal(t, []int64{1}, annIDs(Filter(anns, opts)))

		opts.Query = "hall b"
		assert.Equal(t, []int64{2}, annIDs(Filter(anns, opts)))
	})

	t.Run("today only", func(t *testing.T) {
		opts := base
		opts.TodayOnly = true
		got := Filter(anns, opts)
		assert.Equal(t, []int64{1, 3}, annIDs(got))
	})

	t.Run("admin sees expired on opt-in", func(t *testing.T) {
		opts := base
		opts.Role = models.RoleAdmin
		opts.ShowExpiredAdmin = true
		got := Filter(anns, opts)
		assert.Len(t, got, 4)
	})
}

func TestCreatedToday(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	anns := []models.Announcement{
		{ID: 1, CreatedAt: now.Add(-time.Hour)},
		{ID: 2, CreatedAt: now.Add(-30 * time.Hour)},
		{ID: 3, CreatedAt: now},
	}
	got := CreatedToday(anns, now)
	assert.Equal(t, []int64{1, 3}, annIDs(got))
}

func annIDs(anns []models.Announcement) []int64 {
	out := make([]int64, len(anns))
	for i, a := range anns {
		out[i] = a.ID
	}
	return out
}
