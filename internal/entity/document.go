package entity

import "time"

// Document is the uploaded file itself. FileName is the stored name on
// disk; DisplayName is what the user sees and may be the model's
// suggestion. DocumentType holds the detected category.
type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PatientID    uint      `gorm:"not null;index" json:"patient_id"`
	Patient      *Patient  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FileName     string    `gorm:"not null" json:"file_name"`
	DisplayName  string    `gorm:"not null" json:"display_name"`
	FilePath     string    `gorm:"not null" json:"file_path"`
	FileType     string    `gorm:"not null" json:"file_type"`
	FileSize     int64     `json:"file_size"`
	DocumentType string    `gorm:"index" json:"document_type"`
	UploadDate   time.Time `gorm:"autoCreateTime" json:"upload_date"`
	Notes        *string   `json:"notes,omitempty"`
}
