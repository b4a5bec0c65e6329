package model

// CaseFacts is the nested, strongly-shaped view of a case's wizard answers.
// It is never persisted: every consumer recomputes it from the flat store via
// facts.ToCaseFacts, so it cannot drift from the source of truth.
//
// Scalar leaves are pointers: nil means "not answered", which is distinct
// from a falsy answer (0, false, ""). Mapping only ever fills nil leaves;
// the evidence upload flags are the one exception and are always recomputed.
type CaseFacts struct {
	Meta           Meta           `json:"meta"`
	Property       Property       `json:"property"`
	Tenancy        Tenancy        `json:"tenancy"`
	Parties        Parties        `json:"parties"`
	Issues         Issues         `json:"issues"`
	Notice         Notice         `json:"notice"`
	Court          Court          `json:"court"`
	Evidence       Evidence       `json:"evidence"`
	ServiceContact ServiceContact `json:"service_contact"`
	MoneyClaim     MoneyClaim     `json:"money_claim"`
	CaseHealth     CaseHealth     `json:"case_health"`
}

// Meta identifies which product and jurisdiction the case belongs to.
type Meta struct {
	Product      *string `json:"product"`
	Jurisdiction *string `json:"jurisdiction"`
	CaseRef      *string `json:"case_ref"`
}

// Property is the let property's address and type.
type Property struct {
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Postcode     *string `json:"postcode"`
	PropertyType *string `json:"property_type"`
}

// Tenancy holds the tenancy agreement terms.
type Tenancy struct {
	Type             *string  `json:"type"`
	StartDate        *string  `json:"start_date"`
	EndDate          *string  `json:"end_date"`
	RentAmount       *float64 `json:"rent_amount"`
	RentFrequency    *string  `json:"rent_frequency"`
	PaymentDay       *int     `json:"payment_day"`
	DepositAmount    *float64 `json:"deposit_amount"`
	DepositScheme    *string  `json:"deposit_scheme"`
	DepositProtected *bool    `json:"deposit_protected"`
}

// Party is one person or firm on the case. Tenants are ordered: generated
// documents reference "Tenant 1", "Tenant 2" by list position.
type Party struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Postcode     *string `json:"postcode"`
}

// Parties groups everyone involved.
type Parties struct {
	Landlord  Party   `json:"landlord"`
	Agent     Party   `json:"agent"`
	Solicitor Party   `json:"solicitor"`
	Tenants   []Party `json:"tenants"`
}

// Issues groups the grounds the landlord is acting on.
type Issues struct {
	RentArrears   RentArrears   `json:"rent_arrears"`
	ASB           ASB           `json:"asb"`
	OtherBreaches OtherBreaches `json:"other_breaches"`
}

// RentArrears captures the arrears position.
type RentArrears struct {
	HasArrears      *bool         `json:"has_arrears"`
	TotalArrears    *float64      `json:"total_arrears"`
	FirstMissedDate *string       `json:"first_missed_date"`
	Items           []ArrearsItem `json:"items"`
}

// ArrearsItem is one line of the arrears schedule.
type ArrearsItem struct {
	PeriodStart *string  `json:"period_start"`
	PeriodEnd   *string  `json:"period_end"`
	AmountDue   *float64 `json:"amount_due"`
	AmountPaid  *float64 `json:"amount_paid"`
}

// ASB captures anti-social behaviour allegations.
type ASB struct {
	HasASB        *bool    `json:"has_asb"`
	Description   *string  `json:"description"`
	IncidentDates []string `json:"incident_dates"`
}

// OtherBreaches captures non-arrears, non-ASB tenancy breaches.
type OtherBreaches struct {
	HasBreaches *bool        `json:"has_breaches"`
	Description *string      `json:"description"`
	DamageItems []DamageItem `json:"damage_items"`
}

// DamageItem is one claimed item of damage or cost.
type DamageItem struct {
	Description *string  `json:"description"`
	Cost        *float64 `json:"cost"`
}

// Notice records the statutory notice served (or to be served).
type Notice struct {
	Type          *string  `json:"type"`
	ServiceDate   *string  `json:"service_date"`
	ExpiryDate    *string  `json:"expiry_date"`
	ServiceMethod *string  `json:"service_method"`
	Grounds       []string `json:"grounds"`
}

// Court records the chosen route and claim details.
type Court struct {
	Route       *string  `json:"route"`
	CourtName   *string  `json:"court_name"`
	ClaimAmount *float64 `json:"claim_amount"`
	HearingDate *string  `json:"hearing_date"`
}

// Evidence records what supporting material the landlord has. The four
// upload flags are plain booleans, not pointers: they are always recomputed
// from the flat store and OR-ed against their prior value.
type Evidence struct {
	TenancyAgreementUploaded bool     `json:"tenancy_agreement_uploaded"`
	RentScheduleUploaded     bool     `json:"rent_schedule_uploaded"`
	NoticeCopyUploaded       bool     `json:"notice_copy_uploaded"`
	CorrespondenceUploaded   bool     `json:"correspondence_uploaded"`
	TypesAvailable           []string `json:"types_available"`
	ArrearsScheduleConfirmed *bool    `json:"arrears_schedule_confirmed"`
}

// ServiceContact is the address for service on generated documents.
type ServiceContact struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	AddressLine1    *string `json:"address_line1"`
	AddressLine2    *string `json:"address_line2"`
	City            *string `json:"city"`
	Postcode        *string `json:"postcode"`
	PreferredMethod *string `json:"preferred_method"`
}

// MoneyClaim holds the pre-action and claim facts for a money claim, the
// inputs to the compliance checks in the health package.
type MoneyClaim struct {
	BasisOfClaim           *string  `json:"basis_of_claim"`
	AttemptsToResolve      *string  `json:"attempts_to_resolve"`
	LBADate                *string  `json:"lba_date"`
	LBAResponseDeadline    *string  `json:"lba_response_deadline"`
	TenantResponded        *bool    `json:"tenant_responded"`
	TenantResponseDetail   *string  `json:"tenant_response_detail"`
	PAPDocumentsSent       []string `json:"pap_documents_sent"`
	PAPServiceMethod       *string  `json:"pap_service_method"`
	InterestClaimed        *bool    `json:"interest_claimed"`
	InterestRate           *float64 `json:"interest_rate"`
	SolicitorCosts         *float64 `json:"solicitor_costs"`
	EnforcementPreferences []string `json:"enforcement_preferences"`
}

// NewEmptyCaseFacts returns the all-nil baseline every mapping pass starts
// from. Slices are empty, not nil, so JSON consumers always see arrays.
func NewEmptyCaseFacts() CaseFacts {
	return CaseFacts{
		Parties: Parties{Tenants: []Party{}},
		Issues: Issues{
			RentArrears:   RentArrears{Items: []ArrearsItem{}},
			ASB:           ASB{IncidentDates: []string{}},
			OtherBreaches: OtherBreaches{DamageItems: []DamageItem{}},
		},
		Notice:   Notice{Grounds: []string{}},
		Evidence: Evidence{TypesAvailable: []string{}},
		MoneyClaim: MoneyClaim{
			PAPDocumentsSent:       []string{},
			EnforcementPreferences: []string{},
		},
		CaseHealth: NewClearCaseHealth(),
	}
}
