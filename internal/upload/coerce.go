package upload

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Tolerant coercion of spreadsheet cell values. Every coercer accepts
// whatever the reader hands it (nil, native typed value, string, number) and
// reports failure through its ok return instead of an error: the ingesters
// decide whether a missing value is fatal for a given field.

// excelEpoch is the zero day of the 1900 date system, offset so that the
// sheet's serial 60 leap-year bug cancels out (serial 1 is 1900-01-01).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// serialDateMin is the smallest number treated as a spreadsheet date serial.
// Anything lower is more plausibly a capacity, a duration, or an ID.
const serialDateMin = 40000

// IsMissing reports whether the value should be treated as absent: nil,
// blank string, or NaN.
func IsMissing(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	default:
		return false
	}
}

// CleanString trims the value's string form, truncating to maxLen runes when
// maxLen > 0. Missing values become "".
func CleanString(value interface{}, maxLen int) string {
	if IsMissing(value) {
		return ""
	}
	var text string
	switch v := value.(type) {
	case string:
		text = v
	case float64:
		// Whole floats print without a decimal point so IDs survive intact.
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			text = strconv.FormatInt(int64(v), 10)
		} else {
			text = strconv.FormatFloat(v, 'f', -1, 64)
		}
	case int:
		text = strconv.Itoa(v)
	case int64:
		text = strconv.FormatInt(v, 10)
	case bool:
		text = strconv.FormatBool(v)
	case time.Time:
		text = v.Format(time.RFC3339)
	default:
		return ""
	}
	text = strings.TrimSpace(text)
	if maxLen > 0 {
		runes := []rune(text)
		if len(runes) > maxLen {
			text = string(runes[:maxLen])
		}
	}
	return text
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// CoerceDate extracts a calendar date. Datetimes are truncated to their date;
// large numbers are interpreted as 1900-system spreadsheet serials.
func CoerceDate(value interface{}) (time.Time, bool) {
	if IsMissing(value) {
		return time.Time{}, false
	}
	switch v := value.(type) {
	case time.Time:
		return truncateToDate(v), true
	case float64:
		if v >= serialDateMin {
			return truncateToDate(serialToTime(v)), true
		}
		return time.Time{}, false
	case int:
		return CoerceDate(float64(v))
	case int64:
		return CoerceDate(float64(v))
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return truncateToDate(t), true
			}
		}
		if serial, err := strconv.ParseFloat(text, 64); err == nil && serial >= serialDateMin {
			return truncateToDate(serialToTime(serial)), true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

// CoerceDateTime extracts a full datetime; date-only inputs fail here so the
// caller can fall back to combining a date with a separate time column.
func CoerceDateTime(value interface{}) (time.Time, bool) {
	if IsMissing(value) {
		return time.Time{}, false
	}
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		text := strings.TrimSpace(v)
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// CoerceTime extracts a time of day as an offset from midnight. It accepts
// HH:MM[:SS] strings, bare HHMM / HMM digit runs, full datetimes, and
// spreadsheet fractional days (0.0-1.0 mapping to floor(x*86400) seconds).
func CoerceTime(value interface{}) (time.Duration, bool) {
	if IsMissing(value) {
		return 0, false
	}
	switch v := value.(type) {
	case time.Time:
		return time.Duration(v.Hour())*time.Hour +
			time.Duration(v.Minute())*time.Minute +
			time.Duration(v.Second())*time.Second, true
	case float64:
		if v < 0 || v >= 1 {
			return 0, false
		}
		seconds := int(math.Floor(v * 86400))
		return time.Duration(seconds) * time.Second, true
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0, false
		}
		for _, layout := range []string{"15:04:05", "15:04"} {
			if t, err := time.Parse(layout, text); err == nil {
				return CoerceTime(t)
			}
		}
		if dt, ok := CoerceDateTime(text); ok {
			return CoerceTime(dt)
		}
		if frac, err := strconv.ParseFloat(text, 64); err == nil && frac >= 0 && frac < 1 {
			return CoerceTime(frac)
		}
		return timeFromDigits(text)
	default:
		return 0, false
	}
}

// timeFromDigits parses clock values written as bare digit runs ("0900",
// "930"), a shape some timetable exports use.
func timeFromDigits(text string) (time.Duration, bool) {
	digits := nonDigits.ReplaceAllString(text, "")
	if len(digits) != 3 && len(digits) != 4 {
		return 0, false
	}
	hours, err1 := strconv.Atoi(digits[:len(digits)-2])
	minutes, err2 := strconv.Atoi(digits[len(digits)-2:])
	if err1 != nil || err2 != nil || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, true
}

var firstInteger = regexp.MustCompile(`\d+`)

// CoerceInt extracts a plain integer: bools map to 0/1, floats round, and
// strings yield their first digit run.
func CoerceInt(value interface{}) (int, bool) {
	if IsMissing(value) {
		return 0, false
	}
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(math.Round(v)), true
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(text); err == nil {
			return n, true
		}
		if match := firstInteger.FindString(text); match != "" {
			n, err := strconv.Atoi(match)
			if err == nil {
				return n, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*h`)
	minutePattern = regexp.MustCompile(`(\d+)\s*m`)
)

// CoerceMinutes extracts a duration in minutes: plain integers pass through,
// "H:MM" becomes H*60+MM, "(N)h (N)m" patterns are summed, and any other
// string falls back to its first integer. Negatives clamp to zero.
func CoerceMinutes(value interface{}) (int, bool) {
	if IsMissing(value) {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return clampMinutes(v), true
	case int64:
		return clampMinutes(int(v)), true
	case float64:
		return clampMinutes(int(math.Round(v))), true
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		if text == "" {
			return 0, false
		}
		if strings.Contains(text, ":") {
			parts := strings.Split(text, ":")
			filtered := parts[:0]
			for _, p := range parts {
				if p != "" {
					filtered = append(filtered, p)
				}
			}
			if len(filtered) >= 2 {
				hours, err1 := strconv.Atoi(strings.TrimSpace(filtered[0]))
				minutes, err2 := strconv.Atoi(strings.TrimSpace(filtered[1]))
				if err1 == nil && err2 == nil {
					return clampMinutes(hours*60 + minutes), true
				}
			}
		}
		hourMatch := hourPattern.FindStringSubmatch(text)
		minuteMatch := minutePattern.FindStringSubmatch(text)
		if hourMatch != nil || minuteMatch != nil {
			hours, minutes := 0, 0
			if hourMatch != nil {
				hours, _ = strconv.Atoi(hourMatch[1])
			}
			if minuteMatch != nil {
				minutes, _ = strconv.Atoi(minuteMatch[1])
			}
			return clampMinutes(hours*60 + minutes), true
		}
		if match := firstInteger.FindString(text); match != "" {
			n, err := strconv.Atoi(match)
			if err == nil {
				return clampMinutes(n), true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

func clampMinutes(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func serialToTime(serial float64) time.Time {
	days := int(serial)
	frac := serial - float64(days)
	return excelEpoch.AddDate(0, 0, days).
		Add(time.Duration(math.Round(frac * float64(24*time.Hour))))
}
