package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FIR is the First Information Report a case originates from
type FIR struct {
	ID              string         `json:"id" bson:"_id" gorm:"primaryKey"`
	FIRNumber       string         `json:"firNumber" bson:"firNumber" gorm:"column:fir_number"`
	PoliceStationID string         `json:"policeStationId" bson:"policeStationId" gorm:"column:police_station_id"`
	PoliceStation   *PoliceStation `json:"policeStation,omitempty" bson:"-" gorm:"foreignKey:PoliceStationID"`
	IncidentDate    time.Time      `json:"incidentDate" bson:"incidentDate"`
	SectionsApplied string         `json:"sectionsApplied" bson:"sectionsApplied"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
}

// TableName maps FIR to the firs table
func (FIR) TableName() string { return "firs" }

// CaseSummary is the list view of a case: FIR, current state and the active
// assignment only.
type CaseSummary struct {
	ID          string            `json:"id" bson:"_id" gorm:"primaryKey"`
	FIRID       string            `json:"firId" bson:"firId" gorm:"column:fir_id"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	FIR         *FIR              `json:"fir" bson:"-" gorm:"foreignKey:FIRID"`
	State       *CurrentCaseState `json:"state" bson:"-" gorm:"foreignKey:CaseID"`
	Assignments []CaseAssignment  `json:"assignments" bson:"-" gorm:"foreignKey:CaseID"`
}

// TableName maps CaseSummary to the cases table
func (CaseSummary) TableName() string { return "cases" }

// CaseRecord is the full detail of a case
type CaseRecord struct {
	ID               string             `json:"id" bson:"_id" gorm:"primaryKey"`
	FIRID            string             `json:"firId" bson:"firId" gorm:"column:fir_id"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	FIR              *FIR               `json:"fir" bson:"-" gorm:"foreignKey:FIRID"`
	State            *CurrentCaseState  `json:"state" bson:"-" gorm:"foreignKey:CaseID"`
	StateHistory     []CaseStateHistory `json:"stateHistory" bson:"-" gorm:"foreignKey:CaseID"`
	Assignments      []CaseAssignment   `json:"assignments" bson:"-" gorm:"foreignKey:CaseID"`
	Accused          []Accused          `json:"accused" bson:"-" gorm:"foreignKey:CaseID"`
	Evidence         []Evidence         `json:"evidence" bson:"-" gorm:"foreignKey:CaseID"`
	Witnesses        []Witness          `json:"witnesses" bson:"-" gorm:"foreignKey:CaseID"`
	Documents        []Document         `json:"documents" bson:"-" gorm:"foreignKey:CaseID"`
	CourtSubmissions []CourtSubmission  `json:"courtSubmissions" bson:"-" gorm:"foreignKey:CaseID"`
}

// TableName maps CaseRecord to the cases table
func (CaseRecord) TableName() string { return "cases" }

// CaseScope is what the mutating workflows need to authorize a change: the
// owning station and the projected state, if any.
type CaseScope struct {
	CaseID          string
	PoliceStationID string
	CurrentState    *CaseState
}

// CaseAssignment records that a user was responsible for a case during an
// interval. UnassignedAt is nil for the current assignment.
type CaseAssignment struct {
	ID               string       `json:"id" bson:"_id" gorm:"primaryKey"`
	CaseID           string       `json:"caseId" bson:"caseId"`
	AssignedTo       string       `json:"assignedTo" bson:"assignedTo"`
	AssignedBy       string       `json:"assignedBy" bson:"assignedBy"`
	AssignmentReason string       `json:"assignmentReason" bson:"assignmentReason"`
	AssignedAt       time.Time    `json:"assignedAt" bson:"assignedAt"`
	UnassignedAt     *time.Time   `json:"unassignedAt" bson:"unassignedAt"`
	AssignedUser     *UserSummary `json:"assignedUser,omitempty" bson:"-" gorm:"foreignKey:AssignedTo"`
}

// TableName maps CaseAssignment to the case_assignments table
func (CaseAssignment) TableName() string { return "case_assignments" }

// BeforeCreate generates the row id
func (a *CaseAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// CurrentCaseState is the projection of a case's present state
type CurrentCaseState struct {
	CaseID       string    `json:"caseId" bson:"_id" gorm:"primaryKey"`
	CurrentState CaseState `json:"currentState" bson:"currentState"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName maps CurrentCaseState to the current_case_states table
func (CurrentCaseState) TableName() string { return "current_case_states" }

// CaseStateHistory is one append-only state transition
type CaseStateHistory struct {
	ID           string    `json:"id" bson:"_id" gorm:"primaryKey"`
	CaseID       string    `json:"caseId" bson:"caseId"`
	FromState    CaseState `json:"fromState" bson:"fromState"`
	ToState      CaseState `json:"toState" bson:"toState"`
	ChangedBy    string    `json:"changedBy" bson:"changedBy"`
	ChangeReason string    `json:"changeReason" bson:"changeReason"`
	ChangedAt    time.Time `json:"changedAt" bson:"changedAt"`
}

// TableName maps CaseStateHistory to the case_state_histories table
func (CaseStateHistory) TableName() string { return "case_state_histories" }

// BeforeCreate generates the row id
func (h *CaseStateHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// StateTransition is the result of a state change
type StateTransition struct {
	CaseID        string    `json:"caseId"`
	PreviousState CaseState `json:"previousState"`
	NewState      CaseState `json:"newState"`
}
