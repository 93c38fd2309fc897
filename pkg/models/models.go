package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/tidwall/gjson"
)

// UserRole controls which parts of the dataset a session may see and mutate.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

// Category is the audience of an announcement.
type Category string

const (
	CategoryMale   Category = "male"
	CategoryFemale Category = "female"
	CategoryAll    Category = "all"
)

// ValidCategory reports whether c is one of the canonical categories.
func ValidCategory(c Category) bool {
	return c == CategoryMale || c == CategoryFemale || c == CategoryAll
}

// RegistrationType says how students sign up for an event.
type RegistrationType string

const (
	RegistrationLink RegistrationType = "link"
	RegistrationOpen RegistrationType = "open"
)

// LinkItem is a navigation link shown on the portal. Slice order is the
// display order and is part of the persisted state.
type LinkItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden"`
}

// Announcement is a timed event notice. ID is a unix-millisecond creation
// stamp kept for wire compatibility with already-published documents;
// CreatedAt is the explicit creation time and is backfilled from ID when a
// legacy payload omits it.
type Announcement struct {
	ID               int64            `json:"id"`
	CreatedAt        time.Time        `json:"createdAt,omitzero"`
	Title            string           `json:"title"`
	Category         Category         `json:"category"`
	ImageURL         string           `json:"imageUrl,omitempty"`
	ImageDataURL     string           `json:"imageDataUrl,omitempty"`
	Details          string           `json:"details"`
	Date             time.Time        `json:"date"`
	Location         string           `json:"location"`
	RegistrationType RegistrationType `json:"registrationType"`
	RegistrationURL  string           `json:"registrationUrl,omitempty"`
	ClubName         string           `json:"clubName,omitempty"`
	ClubName2        string           `json:"clubName2,omitempty"`
}

// Image returns the authoritative image source: an inlined data URL wins
// over a plain URL when both are set.
func (a Announcement) Image() string {
	if a.ImageDataURL != "" {
		return a.ImageDataURL
	}
	return a.ImageURL
}

// ThemeConfig is the portal presentation configuration. Only
// AnnouncementExpiryHours and ShowExpiredAnnouncementsAdmin feed back into
// the engine; the rest is carried opaquely for the UI.
type ThemeConfig struct {
	Title                         string `json:"title"`
	Subtitle                      string `json:"subtitle"`
	TitleSize                     string `json:"titleSize"`
	HeaderIcon                    string `json:"headerIcon"`
	AccentColor                   string `json:"accentColor"`
	TitleColor                    string `json:"titleColor"`
	SubtitleColor                 string `json:"subtitleColor"`
	Preset                        string `json:"preset"`
	TitleFont                     string `json:"titleFont"`
	AnnouncementExpiryHours       int    `json:"announcementExpiryHours"`
	ShowExpiredAnnouncementsAdmin bool   `json:"showExpiredAnnouncementsAdmin"`
	NewsletterHeaderImage         string `json:"newsletterHeaderImage,omitempty"`
	NewsletterFooterImage         string `json:"newsletterFooterImage,omitempty"`
}

// Snapshot is the whole shared dataset, fetched, cached and pushed as one
// atomic unit. There is no field-level sync.
type Snapshot struct {
	Links         []LinkItem     `json:"links"`
	Announcements []Announcement `json:"announcements"`
	ThemeConfig   ThemeConfig    `json:"themeConfig"`
	AdminPassword string         `json:"adminPassword"`
}

// SyncState is the write-back machine state.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncSyncing SyncState = "syncing"
	SyncSuccess SyncState = "success"
	SyncError   SyncState = "error"
)

// SyncStatus is transient, never persisted.
type SyncStatus struct {
	State     SyncState
	LastError string
}

// ErrInvalidShape means a payload parsed as JSON but is not a snapshot:
// the permissive contract only demands links and themeConfig.
var ErrInvalidShape = errors.New("payload is missing links or themeConfig")

// DecodeSnapshot parses a remote or cached payload into a usable snapshot.
// Older payload versions may omit announcements and adminPassword; those
// default to empty and "admin". Theme fields absent from the payload keep
// their built-in defaults.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidShape
	}
	root := gjson.ParseBytes(data)
	if !root.Get("links").IsArray() || !root.Get("themeConfig").IsObject() {
		return nil, ErrInvalidShape
	}

	snap := &Snapshot{ThemeConfig: DefaultTheme()}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, ErrInvalidShape
	}
	snap.Normalize()
	return snap, nil
}

// Normalize applies the backward-compatibility defaults in place.
func (s *Snapshot) Normalize() {
	if s.Links == nil {
		s.Links = []LinkItem{}
	}
	if s.Announcements == nil {
		s.Announcements = []Announcement{}
	}
	if s.AdminPassword == "" {
		s.AdminPassword = defaultAdminPassword
	}
	for i := range s.Announcements {
		if s.Announcements[i].CreatedAt.IsZero() {
			s.Announcements[i].CreatedAt = time.UnixMilli(s.Announcements[i].ID)
		}
		if s.Announcements[i].RegistrationType == "" {
			s.Announcements[i].RegistrationType = RegistrationLink
		}
	}
}

// Encode serializes the snapshot for the wire and the local cache.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// EncodeIndent is the export form: the same document, pretty-printed.
func (s *Snapshot) EncodeIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Clone returns a deep copy so an in-flight push never observes a snapshot
// being mutated by the editor.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Links:         make([]LinkItem, len(s.Links)),
		Announcements: make([]Announcement, len(s.Announcements)),
		ThemeConfig:   s.ThemeConfig,
		AdminPassword: s.AdminPassword,
	}
	copy(out.Links, s.Links)
	copy(out.Announcements, s.Announcements)
	return out
}

// NewID derives an item id from the creation instant, the convention used by
// every published document so far.
func NewID(now time.Time) int64 {
	return now.UnixMilli()
}
