package bulkimport

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehq/activityboard/pkg/models"
)

var importNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, DetectFormat("batch.csv"))
	assert.Equal(t, FormatCSV, DetectFormat("BATCH.CSV"))
	assert.Equal(t, FormatJSON, DetectFormat("batch.json"))
	assert.Equal(t, FormatJSON, DetectFormat("batch.txt"))
}

func TestParseCSVQuotedFields(t *testing.T) {
	raw := strings.Join([]string{
		`title,category,details,date,location,clubName,registrationType,registrationUrl`,
		`"Workshop, ""Intro to AI""",all,"Hands-on, beginner friendly",2025-10-20 10:00,Lab 3,AI Club,open,`,
	}, "\n")

	anns, err := Parse([]byte(raw), FormatCSV, importNow)
	require.NoError(t, err)
	require.Len(t, anns, 1)

	a := anns[0]
	assert.Equal(t, `Workshop, "Intro to AI"`, a.Title)
	assert.Equal(t, "Hands-on, beginner friendly", a.Details)
	assert.Equal(t, models.CategoryAll, a.Category)
	assert.Equal(t, models.RegistrationOpen, a.RegistrationType)
	assert.Equal(t, importNow, a.CreatedAt)
}

func TestParseCSVToleratesBOM(t *testing.T) {
	raw := "\uFEFF" + strings.Join([]string{
		`title,category,details,date,location`,
		`Event,all,Details,2025-10-20,Hall`,
	}, "\r\n")

	anns, err := Parse([]byte(raw), FormatCSV, importNow)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "Event", anns[0].Title)
}

func TestParseAllOrNothing(t *testing.T) {
	rows := []string{
		`title,category,details,date,location,registrationType`,
		`One,male,d,2025-10-20,Hall,open`,
		`Two,female,d,2025-10-21,Hall,open`,
		`Three,martian,d,2025-10-22,Hall,open`,
		`Four,all,d,2025-10-23,Hall,open`,
		`Five,all,d,2025-10-24,Hall,open`,
	}
	anns, err := Parse([]byte(strings.Join(rows, "\n")), FormatCSV, importNow)
	assert.Nil(t, anns)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.Equal(t, "category", rowErr.Field)
	assert.Equal(t, "martian", rowErr.Value)
}

func TestParseMissingRequiredField(t *testing.T) {
	raw := strings.Join([]string{
		`title,category,details,date,location,registrationType`,
		`One,male,d,2025-10-20,,open`,
	}, "\n")

	_, err := Parse([]byte(raw), FormatCSV, importNow)
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, "location", rowErr.Field)
}

func TestParseArabicCategoryAliases(t *testing.T) {
	cases := map[string]models.Category{
		"طلاب":         models.CategoryMale,
		"ذكور":         models.CategoryMale,
		"طالبات":       models.CategoryFemale,
		"إناث":         models.CategoryFemale,
		"طلاب وطالبات": models.CategoryAll,
		"عام":          models.CategoryAll,
		"الكل":         models.CategoryAll,
		"MALE":         models.CategoryMale,
	}
	for alias, want := range cases {
		raw := strings.Join([]string{
			`title,category,details,date,location,registrationType`,
			`Event,"` + alias + `",d,2025-10-20,Hall,open`,
		}, "\n")
		anns, err := Parse([]byte(raw), FormatCSV, importNow)
		require.NoError(t, err, "alias %q", alias)
		assert.Equal(t, want, anns[0].Category, "alias %q", alias)
	}
}

func TestParseDateLayouts(t *testing.T) {
	dates := []string{
		"2025-10-20T10:00:00Z",
		"2025-10-20T10:00:00",
		"2025-10-20 10:00:00",
		"2025-10-20 10:00",
		"2025-10-20",
		"20/10/2025 10:00",
		"20/10/2025",
	}
	for _, d := range dates {
		raw := strings.Join([]string{
			`title,category,details,date,location,registrationType`,
			`Event,all,d,` + d + `,Hall,open`,
		}, "\n")
		anns, err := Parse([]byte(raw), FormatCSV, importNow)
		require.NoError(t, err, "date %q", d)
		assert.Equal(t, time.October, anns[0].Date.Month(), "date %q", d)
	}
}

func TestParseRegistrationLinkRequiresURL(t *testing.T) {
	raw := strings.Join([]string{
		`title,category,details,date,location,registrationType,registrationUrl`,
		`Event,all,d,2025-10-20,Hall,link,`,
	}, "\n")

	_, err := Parse([]byte(raw), FormatCSV, importNow)
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "registrationUrl", rowErr.Field)
}

func TestParseRejectsBadURL(t *testing.T) {
	bad := []string{
		"ftp://example.com/x",
		"javascript:alert(1)",
		"https://",
		"https://com",
	}
	for _, u := range bad {
		raw := strings.Join([]string{
			`title,category,details,date,location,registrationType,registrationUrl`,
			`Event,all,d,2025-10-20,Hall,link,"` + u + `"`,
		}, "\n")
		_, err := Parse([]byte(raw), FormatCSV, importNow)
		assert.Error(t, err, "url %q", u)
	}
}

func TestParseAcceptsReasonableURLs(t *testing.T) {
	good := []string{
		"https://example.com/register",
		"http://10.0.0.5:8080/form",
		"https://intranet/form",
	}
	for _, u := range good {
		raw := strings.Join([]string{
			`title,category,details,date,location,registrationType,registrationUrl`,
			`Event,all,d,2025-10-20,Hall,link,"` + u + `"`,
		}, "\n")
		_, err := Parse([]byte(raw), FormatCSV, importNow)
		assert.NoError(t, err, "url %q", u)
	}
}

func TestParseJSON(t *testing.T) {
	raw := []byte(`[
		{"title": "حفل التخرج", "category": "عام", "details": "تفاصيل", "date": "2025-10-20 10:00", "location": "القاعة الكبرى", "registrationType": "open"},
		{"title": "Second", "category": "male", "details": "d", "date": "2025-11-01", "location": "Hall", "registrationType": "link", "registrationUrl": "https://example.com"}
	]`)

	anns, err := Parse(raw, FormatJSON, importNow)
	require.NoError(t, err)
	require.Len(t, anns, 2)
	assert.Equal(t, "حفل التخرج", anns[0].Title)
	assert.Equal(t, models.CategoryAll, anns[0].Category)
	assert.Equal(t, models.RegistrationLink, anns[1].RegistrationType)
}

func TestParseJSONRejectsNonArray(t *testing.T) {
	_, err := Parse([]byte(`{"title": "x"}`), FormatJSON, importNow)
	assert.Error(t, err)
}

func TestParseAssignsDistinctIDs(t *testing.T) {
	raw := strings.Join([]string{
		`title,category,details,date,location,registrationType`,
		`One,all,d,2025-10-20,Hall,open`,
		`Two,all,d,2025-10-21,Hall,open`,
		`Three,all,d,2025-10-22,Hall,open`,
	}, "\n")

	anns, err := Parse([]byte(raw), FormatCSV, importNow)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, a := range anns {
		assert.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
	}
}

func TestCSVNeedsHeaderAndData(t *testing.T) {
	_, err := Parse([]byte("title,category\n"), FormatCSV, importNow)
	assert.Error(t, err)
	_, err = Parse([]byte(""), FormatCSV, importNow)
	assert.Error(t, err)
}

func TestTemplatesParseBack(t *testing.T) {
	anns, err := Parse(CSVTemplate(), FormatCSV, importNow)
	require.NoError(t, err)
	assert.Len(t, anns, 2)

	anns, err = Parse(JSONTemplate(), FormatJSON, importNow)
	require.NoError(t, err)
	assert.Len(t, anns, 1)
}
