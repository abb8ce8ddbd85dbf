package reply

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// TimeLayout is how row timestamps are shown.
const TimeLayout = "2006-01-02 15:04:05"

// FormatRow renders one messages row as "[time] sender: content". Timestamps
// that are not RFC 3339 are shown as stored.
func FormatRow(row []byte) string {
	r := gjson.ParseBytes(row)
	return FormatMessage(r.Get("created_at").String(), r.Get("sender").String(), r.Get("content").String())
}

func FormatMessage(createdAt, sender, content string) string {
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		createdAt = t.Local().Format(TimeLayout)
	}
	if sender == "" {
		sender = "?"
	}
	return fmt.Sprintf("[%s] %s: %s", createdAt, sender, content)
}

// FormatRows renders a JSON array of rows oldest first, assuming the array
// is ordered newest first as returned by a descending select.
func FormatRows(rows []byte) []string {
	items := gjson.ParseBytes(rows).Array()
	lines := make([]string, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		lines = append(lines, FormatRow([]byte(items[i].Raw)))
	}
	return lines
}
