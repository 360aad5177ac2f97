package export

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/medvault/medvault/internal/entity"
	"github.com/medvault/medvault/internal/repository"
)

type stubPrescriptions struct {
	repository.PrescriptionRepository
	rows []entity.Prescription
}

func (s *stubPrescriptions) ListByPatient(context.Context, uint) ([]entity.Prescription, error) {
	return s.rows, nil
}

type stubReports struct {
	repository.MedicalReportRepository
	rows []entity.MedicalReport
}

func (s *stubReports) ListByPatient(context.Context, uint, string) ([]entity.MedicalReport, error) {
	return s.rows, nil
}

func strPtr(s string) *string { return &s }

func TestExportPrescriptionsXLSX(t *testing.T) {
	date := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	rxs := &stubPrescriptions{rows: []entity.Prescription{
		{
			ID:               1,
			PrescriptionDate: &date,
			DoctorName:       strPtr("Dr. Mehta"),
			Diagnosis:        strPtr("Hypertension"),
			Medicines: []entity.Medicine{
				{Name: "Amlodipine", Dosage: strPtr("5mg"), WhenToTake: strPtr("morning")},
				{Name: "Telmisartan", Dosage: strPtr("40mg"), WhenToTake: strPtr("night")},
			},
		},
		{ID: 2, ParsingStatus: "failed"},
	}}

	svc := NewService(rxs, &stubReports{}, slog.New(slog.DiscardHandler))
	data, err := svc.ExportPrescriptionsXLSX(context.Background(), 1)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Prescriptions")
	require.NoError(t, err)

	// Header plus two medicine rows plus one placeholder row for the
	// medicine-less prescription.
	require.Len(t, rows, 4)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2024-03-02", rows[1][0])
	assert.Equal(t, "Amlodipine", rows[1][5])
	assert.Equal(t, "Telmisartan", rows[2][5])
	assert.Equal(t, "—", rows[3][5])
}

func TestExportReportsXLSX(t *testing.T) {
	date := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	reports := &stubReports{rows: []entity.MedicalReport{
		{
			ID:            1,
			ReportType:    "blood_test",
			ReportTitle:   strPtr("Complete Blood Count"),
			ReportDate:    &date,
			LabName:       strPtr("Metro Diagnostics"),
			Conclusion:    strPtr("Mild anemia"),
			ParsingStatus: "success",
		},
	}}

	svc := NewService(&stubPrescriptions{}, reports, slog.New(slog.DiscardHandler))
	data, err := svc.ExportReportsXLSX(context.Background(), 1, "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Medical Reports")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "blood_test", rows[1][1])
	assert.Equal(t, "Complete Blood Count", rows[1][2])
	assert.Equal(t, "success", rows[1][7])
}
