package mapper

import (
	"time"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/aiparse"
)

// MedicineEntry is one prescribed medicine. WhenToTake is synthesized from
// the four time-of-day flags; Timing is the model's free-text phrase
// ("after meals") kept separately.
type MedicineEntry struct {
	Name         string
	Dosage       *string
	Frequency    *string
	Timing       *string
	WhenToTake   *string
	DurationDays *int
	Instructions *string
	Morning      bool
	Afternoon    bool
	Evening      bool
	Night        bool
}

// PrescriptionRecord is the typed projection of a prescription extraction.
type PrescriptionRecord struct {
	PrescriptionDate *time.Time
	DoctorName       *string
	DoctorTitle      *string
	DoctorSpecialty  *string
	DoctorDegree     *string
	HospitalName     *string
	HospitalAddress  *string
	Diagnosis        *string
	Notes            *string
	Medicines        []MedicineEntry
	Raw              aiparse.ExtractionResult
	Status           constants.ParseStatus
}

// TestResult is one measured value from a lab report.
type TestResult struct {
	Name           string
	Value          *string
	Unit           *string
	ReferenceRange *string
	Status         *string
}

// MedicalReportRecord is the typed projection of a medical-report
// extraction. SearchableContent concatenates every text field worth
// matching a search query against.
type MedicalReportRecord struct {
	ReportType        string
	ReportTitle       *string
	ReportDate        *time.Time
	LabName           *string
	LabAddress        *string
	TechnicianName    *string
	ReferringDoctor   *string
	ParsedText        *string
	Summary           *string
	Findings          *string
	Conclusion        *string
	Recommendations   *string
	TestResults       []TestResult
	SearchableContent string
	Raw               aiparse.ExtractionResult
	Status            constants.ParseStatus
}
