package report

import (
	"fmt"
	"strconv"
	"strings"
)

// timeWidth is the raw width of the meeting-time field. The 12-hour
// encoding is HHMM-HHMM followed by an AM/PM marker and a one-character
// session flag: "0900-0950AM ".
var timeWidth = Fields[idxTime].Width

// NormalizeRow tidies a classified data row in place: the meeting time is
// rewritten to 24-hour notation and every field is stripped of surrounding
// whitespace. Normalizing an already-normalized row is a no-op.
func NormalizeRow(row []string) {
	if len(row) > idxTime {
		row[idxTime] = ConvertTime(row[idxTime])
	}
	for i, v := range row {
		row[i] = strings.TrimSpace(v)
	}
}

// ConvertTime rewrites the raw meeting-time field from the report's 12-hour
// encoding to an HH:MM-HH:MM 24-hour range.
//
// The start hour lives in characters 0-1 and the end hour in characters
// 5-6. When the field carries a trailing "PM" marker the end hour gains 12
// unless it already reads 12 or later, and the start hour gains 12 only
// when that keeps it at or below the end hour (a range like 11:00-12:50PM
// spans noon and must not become 23:00). Values without two parseable hours
// (TBA and arranged sections) are returned with only the trailing session
// flag removed; anything that is not a raw 12-character field passes
// through unchanged, which makes the conversion idempotent.
func ConvertTime(raw string) string {
	if len(raw) < 9 {
		return raw
	}
	start, serr := strconv.Atoi(raw[0:2])
	end, eerr := strconv.Atoi(raw[5:7])
	if serr != nil || eerr != nil {
		if len(raw) == timeWidth {
			return raw[:len(raw)-1]
		}
		return raw
	}
	if raw[len(raw)-3:len(raw)-1] == "PM" {
		if end < 12 {
			end += 12
		}
		if start+12 <= end {
			start += 12
		}
	}
	return fmt.Sprintf("%02d:%s-%02d:%s", start, raw[2:4], end, raw[7:9])
}
