package mapper

import (
	"sort"
	"strings"
	"time"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/aiparse"
)

// ParseDate parses a strict YYYY-MM-DD date. Anything else, including
// other orderings the model occasionally emits, yields nil rather than a
// wrong date.
func ParseDate(s string) *time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

// MapToPrescription projects an extraction result onto a prescription
// record. Every field tolerates absence; nameless medicines are dropped.
func MapToPrescription(res aiparse.ExtractionResult) *PrescriptionRecord {
	doctor := res.Sub("doctor")
	hospital := res.Sub("hospital")

	rec := &PrescriptionRecord{
		PrescriptionDate: ParseDate(res.Str("prescription_date")),
		DoctorName:       doctor.StrPtr("name"),
		DoctorTitle:      doctor.StrPtr("title"),
		DoctorSpecialty:  doctor.StrPtr("specialty"),
		DoctorDegree:     doctor.StrPtr("degree"),
		HospitalName:     hospital.StrPtr("name"),
		HospitalAddress:  hospital.StrPtr("address"),
		Diagnosis:        res.StrPtr("diagnosis"),
		Notes:            res.StrPtr("additional_notes"),
		Raw:              res,
	}

	for _, item := range res.List("medicines") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		med := aiparse.ExtractionResult(m)
		name := med.Str("name")
		if name == "" {
			continue
		}
		rec.Medicines = append(rec.Medicines, MedicineEntry{
			Name:         name,
			Dosage:       med.StrPtr("dosage"),
			Frequency:    med.StrPtr("frequency"),
			Timing:       med.StrPtr("timing"),
			WhenToTake:   WhenToTake(med),
			DurationDays: med.IntPtr("duration_days"),
			Instructions: med.StrPtr("instructions"),
			Morning:      med.Bool("morning"),
			Afternoon:    med.Bool("afternoon"),
			Evening:      med.Bool("evening"),
			Night:        med.Bool("night"),
		})
	}

	rec.Status = res.Status()
	if rec.Status == constants.ParseStatusSuccess && len(rec.Medicines) == 0 && rec.Diagnosis == nil {
		rec.Status = constants.ParseStatusPartial
	}
	return rec
}

// WhenToTake prefers the medicine's explicit timing phrase ("after
// meals"); the time-of-day flags are only the fallback when the model
// gave no phrase.
func WhenToTake(med aiparse.ExtractionResult) *string {
	if t := med.StrPtr("timing"); t != nil {
		return t
	}
	return SynthesizeWhenToTake(med)
}

// SynthesizeWhenToTake joins the set time-of-day flags in fixed
// morning, afternoon, evening, night order; nil when no flag is set.
func SynthesizeWhenToTake(med aiparse.ExtractionResult) *string {
	var parts []string
	for _, slot := range []string{"morning", "afternoon", "evening", "night"} {
		if med.Bool(slot) {
			parts = append(parts, slot)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, ", ")
	return &s
}

// MapToMedicalReport projects an extraction result onto a medical-report
// record. Test results are sorted by name so the projection is
// deterministic; the unordered source map survives in Raw.
func MapToMedicalReport(res aiparse.ExtractionResult) *MedicalReportRecord {
	lab := res.Sub("lab")

	reportType := res.Str("report_type")
	if reportType == "" {
		reportType = "other"
	}

	rec := &MedicalReportRecord{
		ReportType:      reportType,
		ReportTitle:     res.StrPtr("report_title"),
		ReportDate:      ParseDate(res.Str("report_date")),
		LabName:         lab.StrPtr("name"),
		LabAddress:      lab.StrPtr("address"),
		TechnicianName:  res.StrPtr("technician_name"),
		ReferringDoctor: res.StrPtr("referring_doctor"),
		ParsedText:      res.StrPtr("full_text"),
		Summary:         res.StrPtr("summary"),
		Findings:        res.StrPtr("findings"),
		Conclusion:      res.StrPtr("conclusion"),
		Recommendations: res.StrPtr("recommendations"),
		Raw:             res,
	}

	results := res.Sub("test_results")
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tr := results.Sub(name)
		rec.TestResults = append(rec.TestResults, TestResult{
			Name:           name,
			Value:          tr.StrPtr("value"),
			Unit:           tr.StrPtr("unit"),
			ReferenceRange: tr.StrPtr("reference_range"),
			Status:         tr.StrPtr("status"),
		})
	}

	rec.SearchableContent = SearchableContent(
		res.Str("full_text"),
		res.Str("summary"),
		res.Str("findings"),
		res.Str("conclusion"),
		res.Str("recommendations"),
		res.Str("report_title"),
		res.Sub("lab").Str("name"),
	)

	rec.Status = res.Status()
	if rec.Status == constants.ParseStatusSuccess && len(rec.TestResults) == 0 &&
		rec.Findings == nil && rec.Conclusion == nil {
		rec.Status = constants.ParseStatusPartial
	}
	return rec
}

// SearchableContent joins the non-empty text parts with newlines. Manual
// edits to a report rebuild the search text through the same join.
func SearchableContent(fields ...string) string {
	parts := fields[:0]
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "\n")
}
