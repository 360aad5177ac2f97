package entity

import "time"

// MedicalReport is the structured projection of a parsed lab or imaging
// report. TestResults keeps the extraction's result map as JSON;
// SearchableContent is the concatenated text the search endpoint matches
// against.
type MedicalReport struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	DocumentID        uint       `gorm:"not null;uniqueIndex" json:"document_id"`
	Document          *Document  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PatientID         uint       `gorm:"not null;index" json:"patient_id"`
	ReportType        string     `gorm:"not null;default:other;index" json:"report_type"`
	ReportTitle       *string    `json:"report_title,omitempty"`
	ReportDate        *time.Time `json:"report_date,omitempty"`
	LabName           *string    `json:"lab_name,omitempty"`
	LabAddress        *string    `json:"lab_address,omitempty"`
	TechnicianName    *string    `json:"technician_name,omitempty"`
	ReferringDoctor   *string    `json:"referring_doctor,omitempty"`
	ParsedText        *string    `gorm:"type:text" json:"parsed_text,omitempty"`
	Summary           *string    `gorm:"type:text" json:"summary,omitempty"`
	Findings          *string    `gorm:"type:text" json:"findings,omitempty"`
	Conclusion        *string    `gorm:"type:text" json:"conclusion,omitempty"`
	Recommendations   *string    `gorm:"type:text" json:"recommendations,omitempty"`
	TestResults       []byte     `gorm:"type:jsonb" json:"test_results,omitempty"`
	SearchableContent string     `gorm:"type:text" json:"-"`
	RawParsedData     []byte     `gorm:"type:jsonb" json:"raw_parsed_data,omitempty"`
	ParsingStatus     string     `gorm:"not null;default:success" json:"parsing_status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
