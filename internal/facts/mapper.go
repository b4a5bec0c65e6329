package facts

import (
	"encoding/json"
	"strings"

	"github.com/caseworks-hq/caseworks/internal/model"
)

// ToCaseFacts maps a raw flat store into the nested CaseFacts shape. It is a
// pure function with a no-throw contract: non-object input degrades to the
// empty baseline, every resolution goes through the null-safe helpers, and a
// malformed leaf is skipped rather than surfaced.
//
// The mapping runs in two passes over an intermediate generic tree:
//
//  1. every `case_facts.`-prefixed key is path-written into the tree, so a
//     wizard step that already emits domain-shaped keys populates the nested
//     object directly and takes priority;
//  2. the declarative field table resolves each domain field through its
//     alias chain and assigns only where the first pass left the path unset.
//
// When a field is present both as a prefixed key and a legacy alias with
// different values, the prefixed value wins: first pass wins, not most
// specific key wins.
//
// The returned CaseHealth is the all-clear baseline; health.Annotated
// attaches the derived report.
func ToCaseFacts(raw any) model.CaseFacts {
	store := asStore(raw)
	if store == nil {
		return model.NewEmptyCaseFacts()
	}

	tree := map[string]any{}

	// Pass 1: domain-prefixed keys write straight into the tree. Paths the
	// field table knows get the field's coercion, so "£500" lands as 500 and
	// an unparseable value is skipped, leaving the path unset for pass 2.
	for key, value := range store {
		if !strings.HasPrefix(key, nestedPrefix) {
			continue
		}
		path := normalizeKey(key)
		if c, ok := pathCoercions[path]; ok {
			value = coerceValue(value, c)
		}
		SetPath(tree, path, value)
	}

	// Pass 2: alias-chain resolution, assign-if-absent.
	for _, f := range fieldTable {
		if GetPath(tree, f.path) != nil {
			continue
		}
		SetPath(tree, f.path, coerceValue(FirstValue(store, f.keys...), f.coerce))
	}

	// Evidence upload flags are always recomputed: OR of the resolved value
	// and whatever the first pass already wrote.
	for _, f := range evidenceFlagTable {
		prior := false
		if b := CoerceBool(GetPath(tree, f.path)); b != nil {
			prior = *b
		}
		resolved := prior
		if b := CoerceBool(FirstValue(store, f.keys...)); b != nil {
			resolved = *b
		}
		SetPath(tree, f.path, resolved || prior)
	}

	// Tenants come from the extractor only when the first pass left the
	// list empty.
	if existing, _ := GetPath(tree, "parties.tenants").([]any); len(existing) == 0 {
		if tenants := ExtractTenants(store); len(tenants) > 0 {
			SetPath(tree, "parties.tenants", tenants)
		}
	}

	return decodeTree(tree)
}

// asStore accepts the store under either map type; anything else is "not an
// object" and maps to nil.
func asStore(raw any) model.WizardFacts {
	switch t := raw.(type) {
	case model.WizardFacts:
		if t == nil {
			return nil
		}
		return t
	case map[string]any:
		if t == nil {
			return nil
		}
		return model.WizardFacts(t)
	default:
		return nil
	}
}

func coerceValue(v any, c coercion) any {
	if v == nil {
		return nil
	}
	switch c {
	case asString:
		return deref(CoerceString(v))
	case asNumber:
		return deref(CoerceNumber(v))
	case asInt:
		return deref(CoerceInt(v))
	case asBool:
		return deref(CoerceBool(v))
	case asStringList:
		if list := CoerceStringList(v); list != nil {
			return list
		}
		return nil
	default:
		return v
	}
}

// deref unwraps a coercion result so SetPath's nil-skip applies to failed
// coercions the same way as missing values.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// decodeTree marshals the generic tree through JSON into the typed struct.
// Known paths were already coerced before reaching the tree, so shape
// mismatches here are limited to paths outside the field table (free-form
// item lists); the decode error is deliberately ignored per the no-throw
// contract.
func decodeTree(tree map[string]any) model.CaseFacts {
	cf := model.NewEmptyCaseFacts()
	raw, err := json.Marshal(tree)
	if err != nil {
		return cf
	}
	_ = json.Unmarshal(raw, &cf)
	cf.CaseHealth = model.NewClearCaseHealth()
	return cf
}
