package facts

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/caseworks-hq/caseworks/internal/model"
)

// indexedTenantKey matches flat keys of the form "tenants.N.field" or
// "parties.tenants.N.field".
var indexedTenantKey = regexp.MustCompile(`^(?:parties\.)?tenants\.(\d+)\.(\w+)$`)

// ExtractTenants reconstructs the ordered tenant list from whichever key
// shapes the store happens to hold. Three shapes are recognized:
//
//  1. a direct array value under "tenants" (or "parties.tenants");
//  2. explicit single-purpose legacy keys (tenant1_*/defendant_*/defender_*);
//  3. indexed flat keys ("tenants.0.full_name"), discovered by scanning every
//     key in the store.
//
// When both shape 1 and shape 2 are present, the explicit-field tenants come
// first and the array tenants are appended, with no dedup. The shapes are not
// expected to co-occur in well-formed data, and downstream templates index
// tenants positionally, so the concatenation order is part of the contract.
func ExtractTenants(store model.WizardFacts) []model.Party {
	var fromArray []model.Party
	if raw, ok := FirstValue(store, "tenants", "parties.tenants").([]any); ok {
		for _, item := range raw {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			fromArray = append(fromArray, tenantFromObject(obj))
		}
	}

	explicit := explicitTenants(store)
	if len(explicit) > 0 {
		return append(explicit, fromArray...)
	}
	if len(fromArray) > 0 {
		return fromArray
	}
	return indexedTenants(store)
}

// tenantFromObject maps one array-shaped tenant, preferring full_name over name.
func tenantFromObject(obj map[string]any) model.Party {
	pick := func(keys ...string) *string {
		for _, k := range keys {
			if v, ok := obj[k]; ok && v != nil {
				if s := CoerceString(v); s != nil {
					return s
				}
			}
		}
		return nil
	}
	return model.Party{
		Name:         pick("full_name", "name"),
		Email:        pick("email"),
		Phone:        pick("phone", "telephone"),
		AddressLine1: pick("address_line1", "address"),
		AddressLine2: pick("address_line2"),
		City:         pick("city", "town"),
		Postcode:     pick("postcode"),
	}
}

// explicitTenants builds up to two tenants from single-purpose legacy keys.
func explicitTenants(store model.WizardFacts) []model.Party {
	var out []model.Party

	primary := FirstValue(store,
		"tenant1_name", "tenant_name",
		"defendant_name_1", "defendant_full_name",
		"defender_full_name", "defendant_name",
	)
	if primary != nil {
		out = append(out, model.Party{
			Name:         CoerceString(primary),
			Email:        CoerceString(FirstValue(store, "tenant1_email", "tenant_email", "defendant_email")),
			Phone:        CoerceString(FirstValue(store, "tenant1_phone", "tenant_phone", "defendant_phone")),
			AddressLine1: CoerceString(FirstValue(store, "tenant1_address_line1", "tenant_address_line1", "defendant_address")),
			AddressLine2: CoerceString(FirstValue(store, "tenant1_address_line2", "tenant_address_line2")),
			City:         CoerceString(FirstValue(store, "tenant1_city", "tenant_city")),
			Postcode:     CoerceString(FirstValue(store, "tenant1_postcode", "tenant_postcode", "defendant_postcode")),
		})
	}

	secondary := FirstValue(store,
		"tenant2_name",
		"defendant_name_2", "defendant_secondary_name",
		"defender_secondary_name",
	)
	if secondary != nil {
		out = append(out, model.Party{
			Name:         CoerceString(secondary),
			Email:        CoerceString(FirstValue(store, "tenant2_email", "defendant_secondary_email")),
			Phone:        CoerceString(FirstValue(store, "tenant2_phone", "defendant_secondary_phone")),
			AddressLine1: CoerceString(FirstValue(store, "tenant2_address_line1")),
			AddressLine2: CoerceString(FirstValue(store, "tenant2_address_line2")),
			City:         CoerceString(FirstValue(store, "tenant2_city")),
			Postcode:     CoerceString(FirstValue(store, "tenant2_postcode")),
		})
	}

	return out
}

// indexedTenants scans every key in the store for "tenants.N.field" shapes,
// collects the distinct indices, and builds one tenant per index in numeric
// order.
func indexedTenants(store model.WizardFacts) []model.Party {
	indices := map[int]bool{}
	for key := range store {
		if m := indexedTenantKey.FindStringSubmatch(key); m != nil {
			if idx, err := strconv.Atoi(m[1]); err == nil {
				indices[idx] = true
			}
		}
	}
	if len(indices) == 0 {
		return nil
	}

	sorted := make([]int, 0, len(indices))
	for idx := range indices {
		sorted = append(sorted, idx)
	}
	sort.Ints(sorted)

	out := make([]model.Party, 0, len(sorted))
	for _, idx := range sorted {
		n := strconv.Itoa(idx)
		field := func(names ...string) *string {
			for _, name := range names {
				v := FirstValue(store,
					"tenants."+n+"."+name,
					"parties.tenants."+n+"."+name,
				)
				if v != nil {
					return CoerceString(v)
				}
			}
			return nil
		}
		out = append(out, model.Party{
			Name:         field("full_name", "name"),
			Email:        field("email"),
			Phone:        field("phone", "telephone"),
			AddressLine1: field("address_line1", "address"),
			AddressLine2: field("address_line2"),
			City:         field("city", "town"),
			Postcode:     field("postcode"),
		})
	}
	return out
}
