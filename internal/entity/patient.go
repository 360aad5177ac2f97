package entity

import "time"

// Patient is a family member whose documents are tracked. All medical
// profile fields are optional free text.
type Patient struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"not null;index" json:"name"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Gender            *string    `json:"gender,omitempty"`
	BloodGroup        *string    `json:"blood_group,omitempty"`
	Allergies         *string    `json:"allergies,omitempty"`
	ChronicConditions *string    `json:"chronic_conditions,omitempty"`
	EmergencyContact  *string    `json:"emergency_contact,omitempty"`
	RelationToUser    *string    `json:"relation_to_user,omitempty"`
	AvatarURL         *string    `json:"avatar_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
