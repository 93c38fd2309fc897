package bulkimport

import (
	"io"
	"strings"

	"github.com/salehq/activityboard/pkg/models"
)

// csvHeader is the import file contract.
var csvHeader = []string{
	"title", "category", "details", "date", "location",
	"clubName", "registrationType", "registrationUrl", "imageUrl",
}

// ExportSnapshot writes the full snapshot as pretty-printed JSON, the
// re-importable export contract.
func ExportSnapshot(w io.Writer, snap *models.Snapshot) error {
	data, err := snap.EncodeIndent()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// CSVTemplate produces a starter file for spreadsheet users: header, two
// sample rows, and a UTF-8 byte-order mark so Excel renders Arabic text.
func CSVTemplate() []byte {
	rows := [][]string{
		{"عنوان الإعلان", "male", "تفاصيل الإعلان هنا", "2025-10-20 10:00", "المكان", "اسم النادي", "link", "https://example.com", ""},
		{"إعلان آخر", "female", "التفاصيل...", "2025-11-15 14:00", "مبنى 5", "النادي الثقافي", "open", "", ""},
	}

	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString(strings.Join(csvHeader, ","))
	for _, row := range rows {
		b.WriteString("\n")
		quoted := make([]string, len(row))
		for i, f := range row {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		b.WriteString(strings.Join(quoted, ","))
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// JSONTemplate is the JSON-array starter file.
func JSONTemplate() []byte {
	return []byte(`[
  {
    "title": "عنوان الإعلان",
    "category": "male",
    "details": "تفاصيل الإعلان هنا...",
    "date": "2024-12-31T10:00:00",
    "location": "المكان",
    "clubName": "اسم النادي",
    "registrationType": "link",
    "registrationUrl": "https://example.com/register",
    "imageUrl": "https://example.com/image.jpg"
  }
]
`)
}
