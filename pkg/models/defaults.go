package models

import "time"

const defaultAdminPassword = "admin"

// DefaultTheme is the built-in presentation configuration, also the base
// that loaded themes are merged over.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Title:                         "إدارة النشاط الطلابي",
		Subtitle:                      "بوابة الأندية الطلابية، مصدرك الشامل للإعلانات والروابط الهامة",
		TitleSize:                     "text-5xl md:text-6xl",
		HeaderIcon:                    "link",
		AccentColor:                   "#2dd4bf",
		TitleColor:                    "#FFFFFF",
		SubtitleColor:                 "#E2E8F0",
		Preset:                        "dark",
		TitleFont:                     "Changa",
		AnnouncementExpiryHours:       4,
		ShowExpiredAnnouncementsAdmin: false,
	}
}

// DefaultSnapshot is the last rung of the fallback chain: a small sample
// dataset that keeps the portal usable when both the remote store and the
// local cache are unavailable.
func DefaultSnapshot() *Snapshot {
	s := &Snapshot{
		Links: []LinkItem{
			{
				ID:          1,
				Title:       "نموذج تسجيل الأنشطة",
				URL:         "https://forms.example.com/registration",
				Icon:        "document",
				Description: "استخدم هذا النموذج لتسجيل اسمك في الأنشطة الطلابية المتاحة.",
			},
			{
				ID:          2,
				Title:       "جدول الفعاليات",
				URL:         "https://calendar.example.com/events",
				Icon:        "calendar",
				Description: "اطلع على جدول ومواعيد جميع الفعاليات والأنشطة القادمة.",
			},
		},
		Announcements: []Announcement{
			{
				ID:               1716901842838,
				Title:            "Stories of young professionals",
				Category:         CategoryMale,
				ImageURL:         "https://i.imgur.com/gH5kI3w.jpeg",
				Details:          "This event aims to bridge the gap between academic study and the professional world",
				Date:             time.Date(2025, 10, 29, 19, 0, 0, 0, time.UTC),
				Location:         "Building 59 - Room 1001",
				RegistrationType: RegistrationLink,
				RegistrationURL:  "https://example.com/register-1",
				ClubName:         "Deanship of Student Affairs",
			},
			{
				ID:               1716815338102,
				Title:            "Check Out The Student Activities Events page",
				Category:         CategoryMale,
				ImageURL:         "https://i.imgur.com/So0hWft.jpeg",
				Details:          "Explore Student Clubs Activates through a dedicated website",
				Date:             time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC),
				Location:         "Building 59 - Room 1001",
				RegistrationType: RegistrationLink,
				RegistrationURL:  "https://example.com/register-2",
				ClubName:         "Deanship of Student Affairs",
			},
			{
				ID:               1716815217992,
				Title:            "Annual Arts & Creativity Fair",
				Category:         CategoryFemale,
				ImageURL:         "https://i.imgur.com/e7qBEc3.jpeg",
				Details:          "We invite all creative female students to participate and showcase their artistic works in the annual exhibition.",
				Date:             time.Now().Add(10 * 24 * time.Hour).UTC().Truncate(time.Second),
				Location:         "Exhibition Hall - Activities Building",
				RegistrationType: RegistrationLink,
				RegistrationURL:  "https://example.com/art-fair",
				ClubName:         "Arts Club",
			},
		},
		ThemeConfig:   DefaultTheme(),
		AdminPassword: defaultAdminPassword,
	}
	s.Normalize()
	return s
}
