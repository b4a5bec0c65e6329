// Package health derives the case-health report: contradictions, missing
// evidence, compliance warnings, and a coarse risk level. The report is
// recomputed from the flat store on every read and never persisted.
//
// All current heuristics are money-claim-specific; every other product gets
// an all-clear, low-risk report regardless of how incomplete the facts are.
// The review UI's outcome-confidence widgets compute their own finer-grained
// score; this classifier is deliberately coarse and its thresholds are part
// of the user-facing contract.
package health

import (
	"fmt"

	"github.com/caseworks-hq/caseworks/internal/facts"
	"github.com/caseworks-hq/caseworks/internal/model"
)

// highRiskMissingThreshold is the missing-evidence count at which a case is
// classified high risk even without a contradiction.
const highRiskMissingThreshold = 4

// Annotated maps the flat store and attaches the derived health report in
// one call. This is the nested view consumers actually want.
func Annotated(raw any) model.CaseFacts {
	cf := facts.ToCaseFacts(raw)
	store, _ := raw.(model.WizardFacts)
	if store == nil {
		if m, ok := raw.(map[string]any); ok {
			store = model.WizardFacts(m)
		}
	}
	cf.CaseHealth = Compute(cf, store)
	return cf
}

// Compute runs the heuristic battery over a fully-mapped CaseFacts. The
// store is consulted only for raw flags that predate their nested homes.
func Compute(cf model.CaseFacts, store model.WizardFacts) model.CaseHealth {
	if !isMoneyClaim(cf) {
		return model.NewClearCaseHealth()
	}

	h := model.NewClearCaseHealth()
	h.MissingEvidence = missingEvidence(cf, store)
	h.ComplianceWarnings = complianceWarnings(cf)
	h.Contradictions = contradictions(cf)
	h.RiskLevel = classify(h)
	return h
}

func isMoneyClaim(cf model.CaseFacts) bool {
	return strEq(cf.Meta.Product, model.ProductMoneyClaim) ||
		strEq(cf.Court.Route, model.ProductMoneyClaim)
}

func missingEvidence(cf model.CaseFacts, store model.WizardFacts) []string {
	out := []string{}

	if !hasText(cf.Parties.Landlord.Name) {
		out = append(out, "Landlord (claimant) name is missing.")
	}

	named := false
	for _, t := range cf.Parties.Tenants {
		if hasText(t.Name) {
			named = true
			break
		}
	}
	if !named {
		out = append(out, "No tenant is named on the claim.")
	}

	if !hasText(cf.Property.AddressLine1) || !hasText(cf.Property.Postcode) {
		out = append(out, "Property address is incomplete: first line or postcode is missing.")
	}

	if cf.Tenancy.RentAmount == nil {
		out = append(out, "Rent amount is missing.")
	}

	if cf.Issues.RentArrears.TotalArrears == nil {
		out = append(out, "Total arrears figure is missing.")
	}

	// An arrears schedule can be evidenced three ways: populated line items,
	// an explicit confirmation flag, or an uploaded rent schedule. The
	// confirmation flag may still live under its raw legacy key.
	confirmed := cf.Evidence.ArrearsScheduleConfirmed != nil && *cf.Evidence.ArrearsScheduleConfirmed
	if !confirmed {
		if b := facts.CoerceBool(facts.FirstValue(store, "arrears_schedule_confirmed", "case_facts.evidence.arrears_schedule_confirmed")); b != nil {
			confirmed = *b
		}
	}
	if len(cf.Issues.RentArrears.Items) == 0 && !confirmed && !cf.Evidence.RentScheduleUploaded {
		out = append(out, "No arrears schedule evidence: no line items, no confirmation, and no uploaded rent schedule.")
	}

	return out
}

func complianceWarnings(cf model.CaseFacts) []string {
	out := []string{}
	mc := cf.MoneyClaim

	if !hasText(mc.AttemptsToResolve) {
		out = append(out, "No description of attempts to resolve the dispute before issuing a claim.")
	}
	if !hasText(mc.LBADate) {
		out = append(out, "Letter Before Claim date is missing.")
	}
	if !hasText(mc.LBAResponseDeadline) {
		out = append(out, "Letter Before Claim response deadline is missing.")
	}
	if len(mc.PAPDocumentsSent) == 0 {
		out = append(out, "Pre-action protocol documents are not marked as served.")
	}
	if !hasText(mc.PAPServiceMethod) {
		out = append(out, "No service method recorded for the pre-action protocol documents.")
	}

	anyUpload := cf.Evidence.TenancyAgreementUploaded || cf.Evidence.RentScheduleUploaded ||
		cf.Evidence.NoticeCopyUploaded || cf.Evidence.CorrespondenceUploaded
	if len(cf.Evidence.TypesAvailable) == 0 && !anyUpload {
		out = append(out, "No evidence types are flagged for the claim.")
	}

	return out
}

func contradictions(cf model.CaseFacts) []string {
	out := []string{}
	ra := cf.Issues.RentArrears
	mc := cf.MoneyClaim

	if ra.HasArrears != nil && !*ra.HasArrears && ra.TotalArrears != nil && *ra.TotalArrears > 0 {
		out = append(out, fmt.Sprintf(
			"Case states there are no rent arrears but records total arrears of £%.2f.", *ra.TotalArrears))
	}

	if mc.TenantResponded != nil && *mc.TenantResponded && !hasText(mc.TenantResponseDetail) {
		out = append(out, "Tenant is marked as having responded but no response details are recorded.")
	}

	if strEq(mc.BasisOfClaim, "rent_arrears") && ra.TotalArrears != nil && *ra.TotalArrears == 0 {
		out = append(out, "Basis of claim is rent arrears but total arrears is £0.")
	}

	return out
}

// classify applies the ordered thresholds: any contradiction or four-plus
// missing-evidence entries is high; any missing evidence or warning is
// medium; otherwise low.
func classify(h model.CaseHealth) model.RiskLevel {
	switch {
	case len(h.Contradictions) > 0 || len(h.MissingEvidence) >= highRiskMissingThreshold:
		return model.RiskHigh
	case len(h.MissingEvidence) > 0 || len(h.ComplianceWarnings) > 0:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func hasText(s *string) bool { return s != nil && *s != "" }

func strEq(s *string, want string) bool { return s != nil && *s == want }
