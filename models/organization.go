package models

// PoliceStation is the organization a FIR is registered at
type PoliceStation struct {
	ID       string `json:"id" bson:"_id" gorm:"primaryKey"`
	Name     string `json:"name" bson:"name"`
	District string `json:"district" bson:"district"`
	State    string `json:"state" bson:"state"`
}

// TableName maps PoliceStation to the police_stations table
func (PoliceStation) TableName() string { return "police_stations" }

// Court receives submissions for a case
type Court struct {
	ID        string `json:"id" bson:"_id" gorm:"primaryKey"`
	Name      string `json:"name" bson:"name"`
	CourtType string `json:"courtType" bson:"courtType"`
	District  string `json:"district" bson:"district"`
	State     string `json:"state" bson:"state"`
}

// TableName maps Court to the courts table
func (Court) TableName() string { return "courts" }
