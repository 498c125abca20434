package template

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Resolve walks a dotted path through a data context. A missing segment or a
// nil context resolves to nil rather than an error, so a typo in a template
// binding renders as an empty value instead of failing the document.
// Array indices and wildcards are not supported.
func Resolve(path string, ctx map[string]any) any {
	if path == "" || ctx == nil {
		return nil
	}
	var current any = ctx
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// ResolveList resolves a path expected to bind to an array, as table bindings
// do. Non-array values resolve to nil.
func ResolveList(path string, ctx map[string]any) []any {
	v, _ := Resolve(path, ctx).([]any)
	return v
}

// Formatter turns resolved values into display strings. The formatting rule
// is inferred from the binding path, not a declared type: a path mentioning
// "date" is formatted as a date, one mentioning "total", "price" or "amount"
// as currency. A field literally named "total" is therefore always
// currency-formatted even when it is semantically something else; known
// limitation, kept for compatibility with existing templates.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a formatter for the given BCP 47 locale and ISO 4217
// currency code. Unknown values fall back to German/EUR, the app's default.
func NewFormatter(locale, currencyCode string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.German
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.EUR
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}
}

// FormatByPath is the single entry point for path-convention formatting; every
// caller routes through it so the inference rules can later be swapped for
// explicit per-binding metadata.
func (f *Formatter) FormatByPath(path string, value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok && s == "" {
		return ""
	}

	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "date"):
		if t, ok := asTime(value); ok {
			return t.Format("02.01.2006")
		}
	case strings.Contains(lower, "total") || strings.Contains(lower, "price") || strings.Contains(lower, "amount"):
		if n, ok := asNumber(value); ok {
			return f.printer.Sprintf("%v %v", number.Decimal(n, number.MinFractionDigits(2), number.MaxFractionDigits(2)), currency.Symbol(f.unit))
		}
	}

	if n, ok := asNumber(value); ok {
		return f.printer.Sprintf("%v", number.Decimal(n))
	}
	return fmt.Sprintf("%v", value)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
