package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medvault/medvault/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	prescriptionsRepo repository.PrescriptionRepository
	reportsRepo       repository.MedicalReportRepository
	logger            *slog.Logger
}

func NewService(prescriptionsRepo repository.PrescriptionRepository, reportsRepo repository.MedicalReportRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		prescriptionsRepo: prescriptionsRepo,
		reportsRepo:       reportsRepo,
		logger:            logger,
	}
}

// ExportPrescriptionsXLSX returns an XLSX workbook with one row per
// prescribed medicine for the patient. Prescriptions without medicines
// still get one row so failed parses remain visible.
func (s *Service) ExportPrescriptionsXLSX(ctx context.Context, patientID uint) ([]byte, error) {
	start := time.Now()

	prescriptions, err := s.prescriptionsRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("query prescriptions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Prescriptions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Date",
		"Doctor",
		"Specialty",
		"Hospital",
		"Diagnosis",
		"Medicine",
		"Dosage",
		"Frequency",
		"When To Take",
		"Duration (days)",
		"Instructions",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, p := range prescriptions {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		base := func() {
			write(1, formatDate(p.PrescriptionDate))
			write(2, deref(p.DoctorName))
			write(3, deref(p.DoctorSpecialty))
			write(4, deref(p.HospitalName))
			write(5, deref(p.Diagnosis))
		}

		if len(p.Medicines) == 0 {
			base()
			write(6, "—")
			row++
			continue
		}
		for _, m := range p.Medicines {
			base()
			write(6, m.Name)
			write(7, deref(m.Dosage))
			write(8, deref(m.Frequency))
			write(9, deref(m.WhenToTake))
			if m.DurationDays != nil {
				write(10, *m.DurationDays)
			}
			write(11, truncate(deref(m.Instructions), 140))
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "D", 24)
	_ = f.SetColWidth(sheet, "E", "E", 30)
	_ = f.SetColWidth(sheet, "F", "F", 26)
	_ = f.SetColWidth(sheet, "G", "J", 16)
	_ = f.SetColWidth(sheet, "K", "K", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.prescriptions.ok",
		"patient_id", patientID,
		"prescriptions", len(prescriptions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportReportsXLSX returns an XLSX workbook with one row per medical
// report for the patient, optionally filtered by report type.
func (s *Service) ExportReportsXLSX(ctx context.Context, patientID uint, reportType string) ([]byte, error) {
	start := time.Now()

	reports, err := s.reportsRepo.ListByPatient(ctx, patientID, reportType)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Medical Reports"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Date",
		"Type",
		"Title",
		"Lab",
		"Referring Doctor",
		"Findings",
		"Conclusion",
		"Status",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range reports {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, formatDate(r.ReportDate))
		write(2, r.ReportType)
		write(3, deref(r.ReportTitle))
		write(4, deref(r.LabName))
		write(5, deref(r.ReferringDoctor))
		write(6, truncate(deref(r.Findings), 140))
		write(7, truncate(deref(r.Conclusion), 140))
		write(8, r.ParsingStatus)
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "E", 26)
	_ = f.SetColWidth(sheet, "F", "G", 48)
	_ = f.SetColWidth(sheet, "H", "H", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.reports.ok",
		"patient_id", patientID,
		"reports", len(reports),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
