package models

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound  = errors.New("no item with that id")
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrBadOrder      = errors.New("reorder list must contain every link id exactly once")
)

// AddLink appends a new link (new links go to the end of the display order).
func (s *Snapshot) AddLink(title, url, icon, description string, now time.Time) LinkItem {
	l := LinkItem{
		ID:          NewID(now),
		Title:       title,
		URL:         url,
		Icon:        icon,
		Description: description,
	}
	s.Links = append(s.Links, l)
	return l
}

func (s *Snapshot) UpdateLink(id int64, title, url, icon, description string) error {
	for i := range s.Links {
		if s.Links[i].ID == id {
			s.Links[i].Title = title
			s.Links[i].URL = url
			s.Links[i].Icon = icon
			s.Links[i].Description = description
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *Snapshot) DeleteLink(id int64) error {
	for i := range s.Links {
		if s.Links[i].ID == id {
			s.Links = append(s.Links[:i], s.Links[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// ToggleLinkHidden flips visibility without touching anything else.
func (s *Snapshot) ToggleLinkHidden(id int64) error {
	for i := range s.Links {
		if s.Links[i].ID == id {
			s.Links[i].Hidden = !s.Links[i].Hidden
			return nil
		}
	}
	return ErrItemNotFound
}

// ReorderLinks replaces the display order. The id list must be a permutation
// of the current links.
func (s *Snapshot) ReorderLinks(ids []int64) error {
	if len(ids) != len(s.Links) {
		return ErrBadOrder
	}
	byID := make(map[int64]LinkItem, len(s.Links))
	for _, l := range s.Links {
		byID[l.ID] = l
	}
	out := make([]LinkItem, 0, len(ids))
	for _, id := range ids {
		l, ok := byID[id]
		if !ok {
			return ErrBadOrder
		}
		delete(byID, id)
		out = append(out, l)
	}
	s.Links = out
	return nil
}

// MoveLink moves a link to position `to` (clamped) in the display order.
func (s *Snapshot) MoveLink(id int64, to int) error {
	from := -1
	for i := range s.Links {
		if s.Links[i].ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return ErrItemNotFound
	}
	if to < 0 {
		to = 0
	}
	if to >= len(s.Links) {
		to = len(s.Links) - 1
	}
	l := s.Links[from]
	s.Links = append(s.Links[:from], s.Links[from+1:]...)
	s.Links = append(s.Links[:to], append([]LinkItem{l}, s.Links[to:]...)...)
	return nil
}

// AddAnnouncement prepends a new announcement (newest-first convention).
// A zero ID gets a fresh creation stamp.
func (s *Snapshot) AddAnnouncement(a Announcement, now time.Time) Announcement {
	if a.ID == 0 {
		a.ID = NewID(now)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.RegistrationType == "" {
		a.RegistrationType = RegistrationLink
	}
	s.Announcements = append([]Announcement{a}, s.Announcements...)
	return a
}

// UpdateAnnouncement replaces the body of an announcement, keeping its
// identity and creation time.
func (s *Snapshot) UpdateAnnouncement(id int64, a Announcement) error {
	for i := range s.Announcements {
		if s.Announcements[i].ID == id {
			a.ID = id
			a.CreatedAt = s.Announcements[i].CreatedAt
			s.Announcements[i] = a
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *Snapshot) DeleteAnnouncement(id int64) error {
	for i := range s.Announcements {
		if s.Announcements[i].ID == id {
			s.Announcements = append(s.Announcements[:i], s.Announcements[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// PrependAnnouncements merges a validated bulk-import batch in front of the
// existing list, the same path a single manual add takes.
func (s *Snapshot) PrependAnnouncements(batch []Announcement) {
	if len(batch) == 0 {
		return
	}
	s.Announcements = append(append([]Announcement{}, batch...), s.Announcements...)
}

func (s *Snapshot) SetTheme(t ThemeConfig) {
	s.ThemeConfig = t
}

func (s *Snapshot) VerifyPassword(p string) bool {
	return p == s.AdminPassword
}

func (s *Snapshot) ChangePassword(current, next string) error {
	if current != s.AdminPassword {
		return ErrWrongPassword
	}
	s.AdminPassword = next
	return nil
}
