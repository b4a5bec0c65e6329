package model

// RiskLevel is the coarse three-level case classification surfaced to the
// review UI. It is an ordered-threshold classifier, not a weighted score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// CaseHealth is the derived report over a fully-mapped CaseFacts. It is
// recomputed on every mapping pass and never stored.
type CaseHealth struct {
	Contradictions     []string  `json:"contradictions"`
	MissingEvidence    []string  `json:"missing_evidence"`
	ComplianceWarnings []string  `json:"compliance_warnings"`
	RiskLevel          RiskLevel `json:"risk_level"`
}

// NewClearCaseHealth returns the all-clear, low-risk report used as the
// baseline and for non-money-claim cases.
func NewClearCaseHealth() CaseHealth {
	return CaseHealth{
		Contradictions:     []string{},
		MissingEvidence:    []string{},
		ComplianceWarnings: []string{},
		RiskLevel:          RiskLow,
	}
}
