package bulkimport

import (
	"fmt"
	"regexp"
	"strings"
)

var lineSplit = regexp.MustCompile(`\r\n|\n`)

// parseCSV reads the delimited-text contract: a header row followed by data
// rows. Fields may be quoted; a doubled quote inside a quoted field is a
// literal quote; commas split only outside quotes. Records split on line
// boundaries. A leading UTF-8 byte-order mark (written for spreadsheet
// compatibility) is ignored.
func parseCSV(content string) ([]map[string]string, error) {
	content = strings.TrimPrefix(content, "\uFEFF")

	var lines []string
	for _, line := range lineSplit.Split(content, -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("the file needs a header row and at least one data row")
	}

	headers := splitFields(lines[0])
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	records := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitFields(line)
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				rec[h] = fields[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// splitFields is the minimal quoted-field state machine. A naive split on
// commas breaks as soon as a title or details field contains one.
func splitFields(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"') // escaped double quote
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, current.String())
	return fields
}
