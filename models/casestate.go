package models

// CaseState is a step of the investigation/trial workflow
type CaseState string

// Case states. FIR_REGISTERED is also the implied state of a case that has never
// transitioned.
const (
	StateFIRRegistered          CaseState = "FIR_REGISTERED"
	StateCaseAssigned           CaseState = "CASE_ASSIGNED"
	StateUnderInvestigation     CaseState = "UNDER_INVESTIGATION"
	StateInvestigationPaused    CaseState = "INVESTIGATION_PAUSED"
	StateInvestigationCompleted CaseState = "INVESTIGATION_COMPLETED"
	StateChargeSheetPrepared    CaseState = "CHARGE_SHEET_PREPARED"
	StateClosureReportPrepared  CaseState = "CLOSURE_REPORT_PREPARED"
	StateSubmittedToCourt       CaseState = "SUBMITTED_TO_COURT"
	StateCourtAccepted          CaseState = "COURT_ACCEPTED"
	StateTrialOngoing           CaseState = "TRIAL_ONGOING"
	StateJudgmentReserved       CaseState = "JUDGMENT_RESERVED"
	StateDisposed               CaseState = "DISPOSED"
	StateArchived               CaseState = "ARCHIVED"
)

var allCaseStates = []CaseState{
	StateFIRRegistered,
	StateCaseAssigned,
	StateUnderInvestigation,
	StateInvestigationPaused,
	StateInvestigationCompleted,
	StateChargeSheetPrepared,
	StateClosureReportPrepared,
	StateSubmittedToCourt,
	StateCourtAccepted,
	StateTrialOngoing,
	StateJudgmentReserved,
	StateDisposed,
	StateArchived,
}

// CaseStates returns every case state in workflow order
func CaseStates() []CaseState {
	out := make([]CaseState, len(allCaseStates))
	copy(out, allCaseStates)
	return out
}

// ParseCaseState returns the CaseState matching s
func ParseCaseState(s string) (CaseState, bool) {
	for _, st := range allCaseStates {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the enumerated states
func (s CaseState) Valid() bool {
	_, ok := ParseCaseState(string(s))
	return ok
}
