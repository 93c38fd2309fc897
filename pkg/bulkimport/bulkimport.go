// Package bulkimport parses an externally supplied batch of announcements
// (CSV or JSON) into validated records. Validation is all-or-nothing: the
// first offending row aborts the whole batch so a partially applied import
// can never happen.
package bulkimport

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/salehq/activityboard/pkg/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DetectFormat picks a format from the file name, defaulting to JSON.
func DetectFormat(filename string) Format {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// RowError points the user at the exact row and field to fix in the source
// file. Row numbers are 1-based and count data rows, not the header.
type RowError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("row %d: field %q: %s (%q)", e.Row, e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("row %d: field %q: %s", e.Row, e.Field, e.Reason)
}

var requiredFields = []string{"title", "category", "details", "date", "location"}

// Arabic aliases accepted alongside the canonical category values.
var categoryAliases = map[string]models.Category{
	"male":        models.CategoryMale,
	"طلاب":        models.CategoryMale,
	"ذكور":        models.CategoryMale,
	"female":      models.CategoryFemale,
	"طالبات":      models.CategoryFemale,
	"إناث":        models.CategoryFemale,
	"all":         models.CategoryAll,
	"طلاب وطالبات": models.CategoryAll,
	"عام":         models.CategoryAll,
	"الكل":        models.CategoryAll,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Parse validates a raw batch and returns announcements ready to be merged
// into the snapshot. Every record gets a fresh id derived from now plus its
// row offset, so ids stay distinct within one batch.
func Parse(raw []byte, format Format, now time.Time) ([]models.Announcement, error) {
	var records []map[string]string
	var err error
	switch format {
	case FormatCSV:
		records, err = parseCSV(string(raw))
	case FormatJSON:
		records, err = parseJSON(raw)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.Announcement, 0, len(records))
	for i, rec := range records {
		a, err := buildAnnouncement(rec, i+1, now, int64(i))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func parseJSON(raw []byte) ([]map[string]string, error) {
	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("the file must contain a JSON array of announcements: %w", err)
	}
	records := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rec := make(map[string]string, len(item))
		for k, v := range item {
			key := strings.TrimSpace(k)
			switch val := v.(type) {
			case string:
				rec[key] = val
			case nil:
				// skip
			default:
				rec[key] = fmt.Sprintf("%v", val)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func buildAnnouncement(rec map[string]string, row int, now time.Time, offset int64) (models.Announcement, error) {
	var zero models.Announcement

	get := func(field string) string { return strings.TrimSpace(rec[field]) }

	for _, field := range requiredFields {
		if get(field) == "" {
			return zero, &RowError{Row: row, Field: field, Reason: "required field is missing"}
		}
	}

	rawCategory := get("category")
	category, ok := categoryAliases[strings.ToLower(rawCategory)]
	if !ok {
		category, ok = categoryAliases[rawCategory]
	}
	if !ok {
		return zero, &RowError{Row: row, Field: "category", Value: rawCategory,
			Reason: "unrecognized category; use male, female, all or their Arabic equivalents"}
	}

	rawDate := get("date")
	date, ok := parseDate(rawDate)
	if !ok {
		return zero, &RowError{Row: row, Field: "date", Value: rawDate,
			Reason: "unparsable date; prefer the YYYY-MM-DD HH:mm form"}
	}

	regType := models.RegistrationLink
	if strings.TrimSpace(rec["registrationType"]) == string(models.RegistrationOpen) {
		regType = models.RegistrationOpen
	}

	regURL := get("registrationUrl")
	if regType == models.RegistrationLink {
		if regURL == "" {
			return zero, &RowError{Row: row, Field: "registrationUrl",
				Reason: "required when registrationType is link"}
		}
		if !validAbsoluteURL(regURL) {
			return zero, &RowError{Row: row, Field: "registrationUrl", Value: regURL,
				Reason: "not a valid absolute URL"}
		}
	}

	return models.Announcement{
		ID:               models.NewID(now) + offset,
		CreatedAt:        now,
		Title:            get("title"),
		Category:         category,
		ImageURL:         get("imageUrl"),
		Details:          get("details"),
		Date:             date,
		Location:         get("location"),
		RegistrationType: regType,
		RegistrationURL:  regURL,
		ClubName:         get("clubName"),
		ClubName2:        get("clubName2"),
	}, nil
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// validAbsoluteURL accepts http(s) URLs with a resolvable-looking host: an
// IP literal, or a dotted name whose suffix is on the public suffix list.
func validAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return true
	}
	if !strings.Contains(host, ".") {
		// Bare intranet hostnames are allowed.
		return true
	}
	_, err = publicsuffix.Parse(host)
	return err == nil
}
