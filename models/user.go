package models

// User holds the structure for the users table. Users are managed upstream and
// only read here.
type User struct {
	ID             string  `json:"id" bson:"_id" gorm:"primaryKey"`
	Name           string  `json:"name" bson:"name"`
	Email          string  `json:"email" bson:"email"`
	Role           Role    `json:"role" bson:"role"`
	OrganizationID *string `json:"organizationId,omitempty" bson:"organizationId,omitempty"`
}

// TableName maps User to the users table
func (User) TableName() string { return "users" }

// UserSummary is the public projection of a user attached to assignments.
// Email is left empty in list views.
type UserSummary struct {
	ID    string `json:"id" bson:"_id" gorm:"primaryKey"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

// TableName maps UserSummary to the users table
func (UserSummary) TableName() string { return "users" }
