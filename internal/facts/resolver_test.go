package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caseworks-hq/caseworks/internal/model"
)

func TestLookup_ExactKey(t *testing.T) {
	store := model.WizardFacts{"landlord_name": "Jane Doe"}
	assert.Equal(t, "Jane Doe", Lookup(store, "landlord_name"))
}

func TestLookup_PrefixStripped(t *testing.T) {
	store := model.WizardFacts{"parties.landlord.name": "Jane Doe"}
	assert.Equal(t, "Jane Doe", Lookup(store, "case_facts.parties.landlord.name"))
}

func TestLookup_BracketNormalized(t *testing.T) {
	store := model.WizardFacts{"tenants.0.full_name": "John Smith"}
	assert.Equal(t, "John Smith", Lookup(store, "case_facts.tenants[0].full_name"))
}

// The key as queried beats its normalized synonym when both exist.
func TestLookup_ExactKeyWins(t *testing.T) {
	store := model.WizardFacts{
		"case_facts.property.postcode": "SW1A 1AA",
		"property.postcode":            "LS28 7HF",
	}
	assert.Equal(t, "SW1A 1AA", Lookup(store, "case_facts.property.postcode"))
}

func TestLookup_FalsyValuesAreReturned(t *testing.T) {
	store := model.WizardFacts{"total_arrears": float64(0), "has_asb": false, "notes": ""}
	assert.Equal(t, float64(0), Lookup(store, "total_arrears"))
	assert.Equal(t, false, Lookup(store, "has_asb"))
	assert.Equal(t, "", Lookup(store, "notes"))
}

func TestLookup_NilValueIsMissing(t *testing.T) {
	store := model.WizardFacts{"landlord_name": nil}
	assert.Nil(t, Lookup(store, "landlord_name"))
	assert.Nil(t, Lookup(nil, "landlord_name"))
}

func TestFirstValue_OrderSignificant(t *testing.T) {
	store := model.WizardFacts{
		"claimant_full_name": "Legacy Name",
		"landlord_name":      "Jane Doe",
	}
	got := FirstValue(store, "case_facts.parties.landlord.name", "landlord_name", "claimant_full_name")
	assert.Equal(t, "Jane Doe", got)
}

func TestFirstValue_SkipsMissing(t *testing.T) {
	store := model.WizardFacts{"defendant_name_1": "John Smith"}
	got := FirstValue(store, "tenant1_name", "defendant_name_1")
	assert.Equal(t, "John Smith", got)
	assert.Nil(t, FirstValue(store, "missing_a", "missing_b"))
}

func TestCoerceBool_Table(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want *bool
	}{
		{"nil", nil, nil},
		{"true", true, boolPtr(true)},
		{"false", false, boolPtr(false)},
		{"yes upper", "YES", boolPtr(true)},
		{"no mixed", "No", boolPtr(false)},
		{"y", "y", boolPtr(true)},
		{"n", "N", boolPtr(false)},
		{"one string", "1", boolPtr(true)},
		{"zero string", "0", boolPtr(false)},
		{"zero number", float64(0), boolPtr(false)},
		{"nonzero number", float64(3), boolPtr(true)},
		{"int", 1, boolPtr(true)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CoerceBool(tc.in))
		})
	}
}

// Unrecognized strings fall through to truthiness of the original value:
// any non-empty string is true, the empty string is false. Inconsistent
// with the explicit match sets, but downstream compliance logic depends on
// the current behavior.
func TestCoerceBool_UnrecognizedStringFallsBackToTruthiness(t *testing.T) {
	assert.Equal(t, boolPtr(true), CoerceBool("maybe"))
	assert.Equal(t, boolPtr(true), CoerceBool("  "))
	assert.Equal(t, boolPtr(false), CoerceBool(""))
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, floatPtr(1200), CoerceNumber(float64(1200)))
	assert.Equal(t, floatPtr(1200.5), CoerceNumber("1200.50"))
	assert.Equal(t, floatPtr(3000), CoerceNumber("£3,000.00"))
	assert.Nil(t, CoerceNumber("two months"))
	assert.Nil(t, CoerceNumber(nil))
	assert.Nil(t, CoerceNumber(""))
}

func TestCoerceInt(t *testing.T) {
	assert.Equal(t, intPtr(15), CoerceInt("15"))
	assert.Equal(t, intPtr(1), CoerceInt(float64(1)))
	assert.Nil(t, CoerceInt("monthly"))
}

func TestCoerceStringList(t *testing.T) {
	assert.Equal(t, []string{"lba"}, CoerceStringList("lba"))
	assert.Equal(t, []string{"lba", "reply_form"}, CoerceStringList([]any{"lba", "reply_form"}))
	assert.Nil(t, CoerceStringList(nil))
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
