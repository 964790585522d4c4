package inventory

import (
	stdjson "encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/kailas-cloud/esgrid/internal/domain"
	"github.com/kailas-cloud/esgrid/internal/domain/catalog"
)

// wildcardEscaper escapes the characters the engine's wildcard syntax treats specially.
// Backslash goes first so inserted escapes are not re-escaped.
var wildcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`/`, `\/`,
	`?`, `\?`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

// dateLayouts are tried in order. Zone-less layouts parse as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	time.RFC1123Z,
	time.RFC1123,
}

func newDateParser() *now.Config {
	return &now.Config{
		WeekStartDay: time.Monday,
		TimeLocation: time.UTC,
		TimeFormats:  dateLayouts,
	}
}

// formatTime renders the round-trippable ISO-8601 form in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseNumber tries int32, then int64, then float64. Only finite results succeed.
func parseNumber(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return n, true
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// integerValue narrows a parsed number to an integer field's 32-bit range.
// Fractions and out-of-range values do not match.
func integerValue(v any) (int64, bool) {
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
			return 0, false
		}
		n = int64(x)
	default:
		return 0, false
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return n, true
}

// normalizeValue converts a predicate operand to its wire form for field f.
// Numeric fields reject strings that are not numbers; date fields pass through
// strings they cannot parse and let the engine's date parser decide.
func (c *Compiler) normalizeValue(f catalog.Field, v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return uint64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return x, nil
	case float32:
		return finite(f, float64(x))
	case float64:
		return finite(f, x)
	case stdjson.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		fv, err := x.Float64()
		if err != nil {
			return nil, invalidOperand(f, "%q is not a number", x.String())
		}
		return finite(f, fv)
	case bool:
		return x, nil
	case time.Time:
		return formatTime(x), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return formatTime(*x), nil
	case string:
		return c.normalizeString(f, x)
	default:
		return fmt.Sprint(x), nil
	}
}

func (c *Compiler) normalizeString(f catalog.Field, s string) (any, error) {
	switch f.Class() {
	case catalog.Numeric:
		n, ok := parseNumber(s)
		if !ok {
			return nil, invalidOperand(f, "%q is not a number", s)
		}
		return n, nil
	case catalog.Date:
		if t, ok := c.parseDate(s); ok {
			return formatTime(t), nil
		}
		return s, nil
	}
	return s, nil
}

func (c *Compiler) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// A zero base keeps jinzhu/now from filling unparsed clock parts with the current time.
	t, err := c.dates.With(time.Time{}.In(time.UTC)).Parse(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func finite(f catalog.Field, v float64) (any, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, invalidOperand(f, "non-finite number")
	}
	return v, nil
}

// stringOperand returns the operand of a pattern operator as text.
func stringOperand(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case stdjson.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func invalidOperand(f catalog.Field, format string, args ...any) error {
	return fmt.Errorf("%w: %w: field %q: %s",
		domain.ErrInvalidRequest, domain.ErrInvalidOperand, f.LogicalName(), fmt.Sprintf(format, args...))
}
