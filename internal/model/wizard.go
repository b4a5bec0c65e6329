// Package model defines the domain types shared across Caseworks: the flat
// wizard-answer store, the nested CaseFacts object consumed by document
// generators, the derived case-health report, and the HTTP API envelopes.
package model

import (
	"time"

	"github.com/google/uuid"
)

// WizardFacts is the flat per-case answer store. Keys are whatever the wizard
// steps emit: plain (`landlord_name`), legacy-aliased (`defendant_name_1`),
// dot-namespaced (`tenants.0.full_name`), or domain-prefixed
// (`case_facts.parties.landlord.name`). Several keys may encode the same fact;
// resolution order lives in the facts package, not here.
type WizardFacts map[string]any

// Clone returns a shallow copy of the store. Updaters receive a clone so a
// failed write never leaves the caller holding mutated state.
func (w WizardFacts) Clone() WizardFacts {
	if w == nil {
		return WizardFacts{}
	}
	out := make(WizardFacts, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// FactsRecord is one row of the case_facts table: the flat store plus its
// advisory version counter. The counter is bumped on every update but is not
// compare-and-swapped; concurrent writers resolve last-write-wins.
type FactsRecord struct {
	CaseID    uuid.UUID   `json:"case_id"`
	Facts     WizardFacts `json:"facts"`
	Version   int         `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Case is the parent case record. CollectedFacts is a denormalized mirror of
// the latest WizardFacts, refreshed on every facts update so list views can
// read one row.
type Case struct {
	ID             uuid.UUID      `json:"id"`
	Product        string         `json:"product"`
	Status         string         `json:"status"`
	CollectedFacts map[string]any `json:"collected_facts,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Products offered by the wizard. Stored on the case and mirrored into
// meta.product on the nested view.
const (
	ProductEvictionNotice   = "eviction_notice"
	ProductTenancyAgreement = "tenancy_agreement"
	ProductMoneyClaim       = "money_claim"
)

// Case statuses.
const (
	CaseStatusDraft     = "draft"
	CaseStatusComplete  = "complete"
	CaseStatusPurchased = "purchased"
)
