// Package export serializes a range-filtered material set into downloadable
// CSV or JSON artifacts. Both exports are single-shot pure transforms; the
// only guard is ErrNoData for an empty filtered set.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codeberg.org/weconnect/server/weconnect/analytics"
	"codeberg.org/weconnect/server/weconnect/materials"
)

// returned when the filtered record set is empty; callers surface a
// "no data to export" notice instead of producing a file
var ErrNoData = errors.New("no data to export")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// a rendered export ready to be sent to the client
type File struct {
	Name string
	MIME string
	Data []byte
}

const (
	mimeCSV  = "text/csv;charset=utf-8"
	mimeJSON = "application/json"

	uploadedAtLayout = "2006-01-02 15:04:05"
)

var csvHeader = []string{
	"Title", "Category", "School", "Course", "Uploaded At",
	"Views", "Downloads", "Diamonds", "Earnings ($)",
}

// shape of one record in the JSON export
type jsonRow struct {
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	School    string  `json:"school"`
	Course    string  `json:"course"`
	CreatedAt string  `json:"created_at"`
	Views     int64   `json:"views"`
	Downloads int64   `json:"downloads"`
	Diamonds  int64   `json:"diamonds"`
	Earnings  float64 `json:"earnings"`
}

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid export format %q", s)
	}
}

// renders the record set filtered by the given range into the requested format
func Render(records []materials.MaterialRecord, r analytics.TimeRange, format Format, now time.Time) (*File, error) {
	switch format {
	case FormatCSV:
		return CSV(records, r, now)
	case FormatJSON:
		return JSON(records, r, now)
	default:
		return nil, fmt.Errorf("invalid export format %q", format)
	}
}

// renders the range-filtered records as CSV, rows in the input (descending
// created_at) order
func CSV(records []materials.MaterialRecord, r analytics.TimeRange, now time.Time) (*File, error) {
	filtered := analytics.FilterByRange(records, r, now)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(csvHeader, ","))
	buf.WriteByte('\n')

	for _, rec := range filtered {
		fields := []string{
			quote(rec.Title),
			quote(rec.Category),
			quote(rec.School),
			quote(rec.Course),
			quote(rec.CreatedAt.Local().Format(uploadedAtLayout)),
			strconv.FormatInt(rec.Views, 10),
			strconv.FormatInt(rec.Downloads, 10),
			strconv.FormatInt(rec.Diamonds, 10),
			strconv.FormatFloat(rec.Earnings, 'f', 2, 64),
		}

		buf.WriteString(strings.Join(fields, ","))
		buf.WriteByte('\n')
	}

	return &File{
		Name: filename(r, FormatCSV, now),
		MIME: mimeCSV,
		Data: buf.Bytes(),
	}, nil
}

// renders the range-filtered records as pretty-printed JSON
func JSON(records []materials.MaterialRecord, r analytics.TimeRange, now time.Time) (*File, error) {
	filtered := analytics.FilterByRange(records, r, now)
	if len(filtered) == 0 {
		return nil, ErrNoData
	}

	rows := make([]jsonRow, 0, len(filtered))

	for _, rec := range filtered {
		rows = append(rows, jsonRow{
			Title:     rec.Title,
			Category:  rec.Category,
			School:    rec.School,
			Course:    rec.Course,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
			Views:     rec.Views,
			Downloads: rec.Downloads,
			Diamonds:  rec.Diamonds,
			Earnings:  rec.Earnings,
		})
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}

	return &File{
		Name: filename(r, FormatJSON, now),
		MIME: mimeJSON,
		Data: data,
	}, nil
}

// my-materials-<range>-<yyyy-MM-dd>.<ext>
func filename(r analytics.TimeRange, format Format, now time.Time) string {
	return fmt.Sprintf("my-materials-%s-%s.%s", r, now.Local().Format("2006-01-02"), format)
}

// string fields are always double-quoted, internal quotes escaped by doubling
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
