package facts

// coercion selects how a resolved raw value is converted before assignment.
type coercion int

const (
	asRaw coercion = iota
	asString
	asNumber
	asInt
	asBool
	asStringList
)

// fieldSpec binds one nested CaseFacts path to its ordered flat-key
// candidates. The domain-prefixed key always comes first, then the plain
// key, then legacy aliases. New legacy keys are added here, never in code.
type fieldSpec struct {
	path   string
	keys   []string
	coerce coercion
}

// fieldTable drives the second mapping pass. Order within a section is
// irrelevant (each field targets a distinct path); order within a key list
// is the resolution order.
var fieldTable = []fieldSpec{
	// meta
	{"meta.product", []string{"case_facts.meta.product", "product", "case_type"}, asString},
	{"meta.jurisdiction", []string{"case_facts.meta.jurisdiction", "jurisdiction", "region"}, asString},
	{"meta.case_ref", []string{"case_facts.meta.case_ref", "case_ref", "case_reference"}, asString},

	// property
	{"property.address_line1", []string{"case_facts.property.address_line1", "property_address_line1", "property_address1", "property_address"}, asString},
	{"property.address_line2", []string{"case_facts.property.address_line2", "property_address_line2", "property_address2"}, asString},
	{"property.city", []string{"case_facts.property.city", "property_city", "property_town"}, asString},
	{"property.postcode", []string{"case_facts.property.postcode", "property_postcode"}, asString},
	{"property.property_type", []string{"case_facts.property.property_type", "property_type"}, asString},

	// tenancy
	{"tenancy.type", []string{"case_facts.tenancy.type", "tenancy_type", "agreement_type"}, asString},
	{"tenancy.start_date", []string{"case_facts.tenancy.start_date", "tenancy_start_date", "start_date"}, asString},
	{"tenancy.end_date", []string{"case_facts.tenancy.end_date", "tenancy_end_date", "end_date"}, asString},
	{"tenancy.rent_amount", []string{"case_facts.tenancy.rent_amount", "rent_amount", "monthly_rent"}, asNumber},
	{"tenancy.rent_frequency", []string{"case_facts.tenancy.rent_frequency", "rent_frequency", "rent_period"}, asString},
	{"tenancy.payment_day", []string{"case_facts.tenancy.payment_day", "rent_payment_day", "payment_day"}, asInt},
	{"tenancy.deposit_amount", []string{"case_facts.tenancy.deposit_amount", "deposit_amount"}, asNumber},
	{"tenancy.deposit_scheme", []string{"case_facts.tenancy.deposit_scheme", "deposit_scheme"}, asString},
	{"tenancy.deposit_protected", []string{"case_facts.tenancy.deposit_protected", "deposit_protected", "is_deposit_protected"}, asBool},

	// parties.landlord: claimant_* from the money-claim wizard, pursuer_*
	// from the Scottish flow.
	{"parties.landlord.name", []string{"case_facts.parties.landlord.name", "landlord_name", "landlord_full_name", "claimant_name", "claimant_full_name", "pursuer_full_name"}, asString},
	{"parties.landlord.email", []string{"case_facts.parties.landlord.email", "landlord_email", "claimant_email"}, asString},
	{"parties.landlord.phone", []string{"case_facts.parties.landlord.phone", "landlord_phone", "claimant_phone"}, asString},
	{"parties.landlord.address_line1", []string{"case_facts.parties.landlord.address_line1", "landlord_address_line1", "landlord_address", "claimant_address"}, asString},
	{"parties.landlord.address_line2", []string{"case_facts.parties.landlord.address_line2", "landlord_address_line2"}, asString},
	{"parties.landlord.city", []string{"case_facts.parties.landlord.city", "landlord_city"}, asString},
	{"parties.landlord.postcode", []string{"case_facts.parties.landlord.postcode", "landlord_postcode", "claimant_postcode"}, asString},

	// parties.agent
	{"parties.agent.name", []string{"case_facts.parties.agent.name", "agent_name", "agent_company_name"}, asString},
	{"parties.agent.email", []string{"case_facts.parties.agent.email", "agent_email"}, asString},
	{"parties.agent.phone", []string{"case_facts.parties.agent.phone", "agent_phone"}, asString},
	{"parties.agent.address_line1", []string{"case_facts.parties.agent.address_line1", "agent_address_line1", "agent_address"}, asString},
	{"parties.agent.postcode", []string{"case_facts.parties.agent.postcode", "agent_postcode"}, asString},

	// parties.solicitor
	{"parties.solicitor.name", []string{"case_facts.parties.solicitor.name", "solicitor_name", "solicitor_firm_name"}, asString},
	{"parties.solicitor.email", []string{"case_facts.parties.solicitor.email", "solicitor_email"}, asString},
	{"parties.solicitor.phone", []string{"case_facts.parties.solicitor.phone", "solicitor_phone"}, asString},
	{"parties.solicitor.address_line1", []string{"case_facts.parties.solicitor.address_line1", "solicitor_address_line1", "solicitor_address"}, asString},
	{"parties.solicitor.postcode", []string{"case_facts.parties.solicitor.postcode", "solicitor_postcode"}, asString},

	// issues.rent_arrears
	{"issues.rent_arrears.has_arrears", []string{"case_facts.issues.rent_arrears.has_arrears", "has_rent_arrears", "has_arrears"}, asBool},
	{"issues.rent_arrears.total_arrears", []string{"case_facts.issues.rent_arrears.total_arrears", "total_arrears", "arrears_total", "arrears_amount"}, asNumber},
	{"issues.rent_arrears.first_missed_date", []string{"case_facts.issues.rent_arrears.first_missed_date", "first_missed_payment_date", "arrears_start_date"}, asString},
	{"issues.rent_arrears.items", []string{"case_facts.issues.rent_arrears.items", "arrears_items", "arrears_schedule"}, asRaw},

	// issues.asb
	{"issues.asb.has_asb", []string{"case_facts.issues.asb.has_asb", "has_asb", "asb_issues"}, asBool},
	{"issues.asb.description", []string{"case_facts.issues.asb.description", "asb_description", "asb_details"}, asString},
	{"issues.asb.incident_dates", []string{"case_facts.issues.asb.incident_dates", "asb_incident_dates"}, asStringList},

	// issues.other_breaches
	{"issues.other_breaches.has_breaches", []string{"case_facts.issues.other_breaches.has_breaches", "has_other_breaches", "other_breaches"}, asBool},
	{"issues.other_breaches.description", []string{"case_facts.issues.other_breaches.description", "breach_description", "other_breaches_description"}, asString},
	{"issues.other_breaches.damage_items", []string{"case_facts.issues.other_breaches.damage_items", "damage_items"}, asRaw},

	// notice
	{"notice.type", []string{"case_facts.notice.type", "notice_type"}, asString},
	{"notice.service_date", []string{"case_facts.notice.service_date", "notice_service_date", "notice_date"}, asString},
	{"notice.expiry_date", []string{"case_facts.notice.expiry_date", "notice_expiry_date", "notice_expiry"}, asString},
	{"notice.service_method", []string{"case_facts.notice.service_method", "notice_service_method", "service_method"}, asString},
	{"notice.grounds", []string{"case_facts.notice.grounds", "notice_grounds", "grounds", "section8_grounds"}, asStringList},

	// court
	{"court.route", []string{"case_facts.court.route", "court_route", "money_claim_route", "claim_route"}, asString},
	{"court.court_name", []string{"case_facts.court.court_name", "court_name"}, asString},
	{"court.claim_amount", []string{"case_facts.court.claim_amount", "claim_amount", "total_claim_amount"}, asNumber},
	{"court.hearing_date", []string{"case_facts.court.hearing_date", "hearing_date"}, asString},

	// evidence (non-flag fields; the upload flags live in evidenceFlagTable)
	{"evidence.types_available", []string{"case_facts.evidence.types_available", "evidence_types_available", "evidence_types"}, asStringList},
	{"evidence.arrears_schedule_confirmed", []string{"case_facts.evidence.arrears_schedule_confirmed", "arrears_schedule_confirmed"}, asBool},

	// service_contact
	{"service_contact.name", []string{"case_facts.service_contact.name", "service_contact_name", "contact_name"}, asString},
	{"service_contact.email", []string{"case_facts.service_contact.email", "service_contact_email", "contact_email"}, asString},
	{"service_contact.phone", []string{"case_facts.service_contact.phone", "service_contact_phone", "contact_phone"}, asString},
	{"service_contact.address_line1", []string{"case_facts.service_contact.address_line1", "service_contact_address_line1", "service_address"}, asString},
	{"service_contact.address_line2", []string{"case_facts.service_contact.address_line2", "service_contact_address_line2"}, asString},
	{"service_contact.city", []string{"case_facts.service_contact.city", "service_contact_city"}, asString},
	{"service_contact.postcode", []string{"case_facts.service_contact.postcode", "service_contact_postcode"}, asString},
	{"service_contact.preferred_method", []string{"case_facts.service_contact.preferred_method", "preferred_contact_method", "service_contact_method"}, asString},

	// money_claim
	{"money_claim.basis_of_claim", []string{"case_facts.money_claim.basis_of_claim", "basis_of_claim", "claim_basis"}, asString},
	{"money_claim.attempts_to_resolve", []string{"case_facts.money_claim.attempts_to_resolve", "attempts_to_resolve", "resolution_attempts"}, asString},
	{"money_claim.lba_date", []string{"case_facts.money_claim.lba_date", "lba_date", "letter_before_claim_date", "lba_sent_date"}, asString},
	{"money_claim.lba_response_deadline", []string{"case_facts.money_claim.lba_response_deadline", "lba_response_deadline", "lba_deadline"}, asString},
	{"money_claim.tenant_responded", []string{"case_facts.money_claim.tenant_responded", "tenant_responded", "defendant_responded"}, asBool},
	{"money_claim.tenant_response_detail", []string{"case_facts.money_claim.tenant_response_detail", "tenant_response_detail", "tenant_response_details", "defendant_response_detail"}, asString},
	{"money_claim.pap_documents_sent", []string{"case_facts.money_claim.pap_documents_sent", "pap_documents_sent", "pap_documents"}, asStringList},
	{"money_claim.pap_service_method", []string{"case_facts.money_claim.pap_service_method", "pap_service_method", "pap_documents_service_method"}, asString},
	{"money_claim.interest_claimed", []string{"case_facts.money_claim.interest_claimed", "claim_interest", "interest_claimed"}, asBool},
	{"money_claim.interest_rate", []string{"case_facts.money_claim.interest_rate", "interest_rate"}, asNumber},
	{"money_claim.solicitor_costs", []string{"case_facts.money_claim.solicitor_costs", "solicitor_costs", "legal_costs"}, asNumber},
	{"money_claim.enforcement_preferences", []string{"case_facts.money_claim.enforcement_preferences", "enforcement_preferences", "enforcement_preference"}, asStringList},
}

// pathCoercions indexes fieldTable by target path so the first mapping pass
// runs the same coercion as the alias chain. A prefixed key resolving to an
// unparseable value is then dropped, leaving the path unset for the second
// pass instead of poisoning the typed decode.
var pathCoercions = func() map[string]coercion {
	m := make(map[string]coercion, len(fieldTable))
	for _, f := range fieldTable {
		m[f.path] = f.coerce
	}
	return m
}()

// evidenceFlagTable drives the evidence upload flags, which are always
// recomputed and OR-ed with their prior value rather than assigned-if-absent.
var evidenceFlagTable = []fieldSpec{
	{path: "evidence.tenancy_agreement_uploaded", keys: []string{"case_facts.evidence.tenancy_agreement_uploaded", "tenancy_agreement_uploaded", "uploaded_tenancy_agreement"}},
	{path: "evidence.rent_schedule_uploaded", keys: []string{"case_facts.evidence.rent_schedule_uploaded", "rent_schedule_uploaded", "uploaded_rent_schedule"}},
	{path: "evidence.notice_copy_uploaded", keys: []string{"case_facts.evidence.notice_copy_uploaded", "notice_copy_uploaded", "uploaded_notice_copy"}},
	{path: "evidence.correspondence_uploaded", keys: []string{"case_facts.evidence.correspondence_uploaded", "correspondence_uploaded", "uploaded_correspondence"}},
}
