// Package facts normalizes the flat wizard-answer store into the nested
// CaseFacts domain object.
//
// The store accumulates keys from years of wizard revisions, so the same
// semantic fact can live under several shapes at once: a plain key, one or
// more legacy aliases, a dot-namespaced key, or a `case_facts.`-prefixed key
// that already spells out the nested path. Resolution is ordered and
// first-match-wins; alias chains are declared as data in fields.go rather
// than inline fallback logic, so adding a legacy key never touches the
// resolution code.
package facts

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/caseworks-hq/caseworks/internal/model"
)

const nestedPrefix = "case_facts."

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// normalizeKey strips the nested prefix and rewrites bracket-array syntax
// (`foo[0]`) to dot syntax (`foo.0`).
func normalizeKey(key string) string {
	key = strings.TrimPrefix(key, nestedPrefix)
	return bracketIndex.ReplaceAllString(key, ".$1")
}

// Lookup resolves a single key against the flat store. It tries the exact
// key first, then the normalized form. A nil stored value counts as missing;
// falsy-but-present values (0, false, "") are returned as-is.
func Lookup(store model.WizardFacts, key string) any {
	if store == nil {
		return nil
	}
	if v, ok := store[key]; ok && v != nil {
		return v
	}
	if norm := normalizeKey(key); norm != key {
		if v, ok := store[norm]; ok && v != nil {
			return v
		}
	}
	return nil
}

// FirstValue resolves an ordered candidate list and returns the first hit.
// This is how legacy-key fallback chains work everywhere: the preferred key
// comes first, aliases after, and the first non-missing value wins.
func FirstValue(store model.WizardFacts, keys ...string) any {
	for _, k := range keys {
		if v := Lookup(store, k); v != nil {
			return v
		}
	}
	return nil
}

var (
	boolTrueWords  = map[string]bool{"yes": true, "true": true, "y": true, "1": true}
	boolFalseWords = map[string]bool{"no": true, "false": true, "n": true, "0": true}
)

// CoerceBool converts a raw answer to a boolean. nil stays nil (unanswered is
// not false). Strings are matched case-insensitively against the yes/no word
// sets; an unrecognized string falls through to truthiness of the original
// value, so "maybe" is true and "" is false. Document generators key legal
// compliance logic off these booleans, so the match sets are load-bearing.
func CoerceBool(v any) *bool {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		return ptr(t)
	case float64:
		return ptr(t != 0)
	case int:
		return ptr(t != 0)
	case int64:
		return ptr(t != 0)
	case string:
		lower := strings.ToLower(strings.TrimSpace(t))
		if boolTrueWords[lower] {
			return ptr(true)
		}
		if boolFalseWords[lower] {
			return ptr(false)
		}
		return ptr(t != "")
	default:
		// Arrays and objects are present, therefore truthy.
		return ptr(true)
	}
}

// CoerceNumber converts a raw answer to a float64. Numeric strings may carry
// a currency sign or thousands separators ("£1,200.50"). Unparseable values
// resolve to nil so the mapper skips the assignment.
func CoerceNumber(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return ptr(t)
	case int:
		return ptr(float64(t))
	case int64:
		return ptr(float64(t))
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "£")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return ptr(f)
	default:
		return nil
	}
}

// CoerceInt converts a raw answer to an int, for fields like payment_day.
func CoerceInt(v any) *int {
	f := CoerceNumber(v)
	if f == nil {
		return nil
	}
	return ptr(int(*f))
}

// CoerceStringList wraps a scalar answer into a one-element list and maps
// list answers element-wise through CoerceString. Used for
// single-value-or-array fields like pap_documents_sent.
func CoerceStringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := CoerceString(item); s != nil {
				out = append(out, *s)
			}
		}
		return out
	default:
		if s := CoerceString(v); s != nil {
			return []string{*s}
		}
		return nil
	}
}

// CoerceString converts a raw answer to a string. Numbers render without a
// trailing ".0" when integral.
func CoerceString(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return ptr(t)
	case float64:
		return ptr(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return ptr(strconv.Itoa(t))
	case bool:
		return ptr(strconv.FormatBool(t))
	default:
		return nil
	}
}

func ptr[T any](v T) *T { return &v }
