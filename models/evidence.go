package models

import "time"

// Accused is a person accused in a case
type Accused struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey"`
	CaseID    string    `json:"caseId" bson:"caseId"`
	Name      string    `json:"name" bson:"name"`
	Gender    string    `json:"gender" bson:"gender"`
	Address   string    `json:"address" bson:"address"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// TableName maps Accused to the accused table
func (Accused) TableName() string { return "accused" }

// Evidence is an evidence item collected for a case
type Evidence struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey"`
	CaseID      string    `json:"caseId" bson:"caseId"`
	Category    string    `json:"category" bson:"category"`
	Description string    `json:"description" bson:"description"`
	FileURL     string    `json:"fileUrl" bson:"fileUrl" gorm:"column:file_url"`
	UploadedBy  string    `json:"uploadedBy" bson:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// TableName maps Evidence to the evidence table
func (Evidence) TableName() string { return "evidence" }

// Witness is a witness recorded for a case
type Witness struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey"`
	CaseID    string    `json:"caseId" bson:"caseId"`
	Name      string    `json:"name" bson:"name"`
	Contact   string    `json:"contact" bson:"contact"`
	Statement string    `json:"statement" bson:"statement"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// TableName maps Witness to the witnesses table
func (Witness) TableName() string { return "witnesses" }

// Document is a document attached to a case
type Document struct {
	ID           string    `json:"id" bson:"_id" gorm:"primaryKey"`
	CaseID       string    `json:"caseId" bson:"caseId"`
	DocumentType string    `json:"documentType" bson:"documentType"`
	FileURL      string    `json:"fileUrl" bson:"fileUrl" gorm:"column:file_url"`
	UploadedBy   string    `json:"uploadedBy" bson:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// TableName maps Document to the documents table
func (Document) TableName() string { return "documents" }

// CourtSubmission records a case being submitted to a court
type CourtSubmission struct {
	ID             string    `json:"id" bson:"_id" gorm:"primaryKey"`
	CaseID         string    `json:"caseId" bson:"caseId"`
	CourtID        string    `json:"courtId" bson:"courtId"`
	Court          *Court    `json:"court,omitempty" bson:"-" gorm:"foreignKey:CourtID"`
	SubmissionType string    `json:"submissionType" bson:"submissionType"`
	Status         string    `json:"status" bson:"status"`
	SubmittedBy    string    `json:"submittedBy" bson:"submittedBy"`
	SubmittedAt    time.Time `json:"submittedAt" bson:"submittedAt"`
}

// TableName maps CourtSubmission to the court_submissions table
func (CourtSubmission) TableName() string { return "court_submissions" }
