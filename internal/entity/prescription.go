package entity

import "time"

// Prescription is the structured projection of a parsed prescription
// document. RawParsedData keeps the verbatim extraction payload so bad
// mappings can be diagnosed after the fact.
type Prescription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	DocumentID       uint       `gorm:"not null;uniqueIndex" json:"document_id"`
	Document         *Document  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PatientID        uint       `gorm:"not null;index" json:"patient_id"`
	PrescriptionDate *time.Time `json:"prescription_date,omitempty"`
	DoctorName       *string    `json:"doctor_name,omitempty"`
	DoctorTitle      *string    `json:"doctor_title,omitempty"`
	DoctorSpecialty  *string    `json:"doctor_specialty,omitempty"`
	DoctorDegree     *string    `json:"doctor_degree,omitempty"`
	HospitalName     *string    `json:"hospital_name,omitempty"`
	HospitalAddress  *string    `json:"hospital_address,omitempty"`
	Diagnosis        *string    `json:"diagnosis,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	RawParsedData    []byte     `gorm:"type:jsonb" json:"raw_parsed_data,omitempty"`
	ParsingStatus    string     `gorm:"not null;default:success" json:"parsing_status"`
	Medicines        []Medicine `gorm:"constraint:OnDelete:CASCADE" json:"medicines"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Medicine is one line item of a prescription.
type Medicine struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	PrescriptionID uint    `gorm:"not null;index" json:"prescription_id"`
	Name           string  `gorm:"not null" json:"name"`
	Dosage         *string `json:"dosage,omitempty"`
	Frequency      *string `json:"frequency,omitempty"`
	Timing         *string `json:"timing,omitempty"`
	WhenToTake     *string `json:"when_to_take,omitempty"`
	DurationDays   *int    `json:"duration_days,omitempty"`
	Instructions   *string `json:"instructions,omitempty"`
	Morning        bool    `json:"morning"`
	Afternoon      bool    `json:"afternoon"`
	Evening        bool    `json:"evening"`
	Night          bool    `json:"night"`
}
