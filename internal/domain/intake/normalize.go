package intake

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISODate is the canonical format dates are normalized to.
const ISODate = "2006-01-02"

// dateLayouts are the input formats accepted for date-kind fields, tried in
// order.
var dateLayouts = []string{
	ISODate,
	time.RFC3339,
	"02/01/2006",
	"2006/01/02",
	"2 Jan 2006",
}

// FilterFields keeps only the payload keys declared in the section schema.
// The "section" discriminator key is never a schema field and is always
// dropped.
func FilterFields(sec *Section, payload map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range payload {
		if _, ok := sec.Field(k); ok {
			out[k] = v
		}
	}
	return out
}

// Normalize coerces the raw values of a filtered payload according to the
// declared kind of each field:
//
//   - nil and empty/whitespace-only strings are treated as absent and dropped
//   - bool-kind strings matching common tokens become booleans
//   - int-kind strings that parse become integers; int-kind floats are truncated
//   - date-kind strings are reformatted to ISO when parseable, else passed
//     through trimmed
//   - remaining strings are trimmed
//   - already-typed values pass through unchanged
//
// Normalize is idempotent: applying it to its own output yields the same map.
func Normalize(sec *Section, payload map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for name, raw := range payload {
		field, ok := sec.Field(name)
		if !ok {
			continue
		}
		if raw == nil {
			continue
		}

		switch v := raw.(type) {
		case string:
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			out[name] = normalizeString(field.Kind, trimmed)
		case float64:
			// JSON numbers decode as float64.
			if field.Kind == KindInt {
				out[name] = int(v)
			} else {
				out[name] = v
			}
		default:
			out[name] = v
		}
	}
	return out
}

func normalizeString(kind FieldKind, s string) interface{} {
	switch kind {
	case KindBool:
		if b, ok := parseBoolToken(s); ok {
			return b
		}
	case KindInt:
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	case KindDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(ISODate)
			}
		}
	}
	return s
}

func parseBoolToken(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	}
	return false, false
}

// Validate checks a normalized payload against the section schema in partial
// mode: every field is optional, but a field that is present must carry a
// value of its declared kind.
func Validate(sec *Section, payload map[string]interface{}) error {
	for name, v := range payload {
		field, ok := sec.Field(name)
		if !ok {
			return fmt.Errorf("field %q is not part of section %q", name, sec.ID)
		}

		switch field.Kind {
		case KindBool:
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("field %q must be a boolean", name)
			}
		case KindInt:
			switch v.(type) {
			case int:
			default:
				return fmt.Errorf("field %q must be an integer", name)
			}
		case KindDate, KindString:
			if _, ok := v.(string); !ok {
				return fmt.Errorf("field %q must be a string", name)
			}
		}
	}
	return nil
}
