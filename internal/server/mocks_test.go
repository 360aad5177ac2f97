package server

import (
	"context"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/aiparse"
	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/content"
	"github.com/medvault/medvault/internal/entity"
	"github.com/medvault/medvault/internal/repository"
)

var errNotFound = common.NewAppError("NOT_FOUND", "not found", common.ErrNotFound)

type mockPatients struct {
	createFn func(ctx context.Context, p *entity.Patient) error
	getFn    func(ctx context.Context, id uint) (*entity.Patient, error)
	listFn   func(ctx context.Context) ([]entity.Patient, error)
	updateFn func(ctx context.Context, p *entity.Patient) error
	deleteFn func(ctx context.Context, id uint) error
}

var _ repository.PatientRepository = (*mockPatients)(nil)

func (m *mockPatients) Create(ctx context.Context, p *entity.Patient) error {
	if m.createFn == nil {
		p.ID = 1
		return nil
	}
	return m.createFn(ctx, p)
}

func (m *mockPatients) GetByID(ctx context.Context, id uint) (*entity.Patient, error) {
	if m.getFn == nil {
		return &entity.Patient{ID: id, Name: "Test Patient"}, nil
	}
	return m.getFn(ctx, id)
}

func (m *mockPatients) List(ctx context.Context) ([]entity.Patient, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func (m *mockPatients) Update(ctx context.Context, p *entity.Patient) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, p)
}

func (m *mockPatients) Delete(ctx context.Context, id uint) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

type mockDocuments struct {
	createFn func(ctx context.Context, d *entity.Document) error
	getFn    func(ctx context.Context, id uint) (*entity.Document, error)
	listFn   func(ctx context.Context, patientID uint, documentType string) ([]entity.Document, error)
	updateFn func(ctx context.Context, d *entity.Document) error
	deleteFn func(ctx context.Context, id uint) error
}

var _ repository.DocumentRepository = (*mockDocuments)(nil)

func (m *mockDocuments) Create(ctx context.Context, d *entity.Document) error {
	if m.createFn == nil {
		d.ID = 1
		return nil
	}
	return m.createFn(ctx, d)
}

func (m *mockDocuments) GetByID(ctx context.Context, id uint) (*entity.Document, error) {
	if m.getFn == nil {
		return nil, errNotFound
	}
	return m.getFn(ctx, id)
}

func (m *mockDocuments) List(ctx context.Context, patientID uint, documentType string) ([]entity.Document, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, patientID, documentType)
}

func (m *mockDocuments) Update(ctx context.Context, d *entity.Document) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, d)
}

func (m *mockDocuments) Delete(ctx context.Context, id uint) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

type mockPrescriptions struct {
	createFn func(ctx context.Context, p *entity.Prescription) error
	getFn    func(ctx context.Context, id uint) (*entity.Prescription, error)
	byDocFn  func(ctx context.Context, documentID uint) (*entity.Prescription, error)
	listFn   func(ctx context.Context, patientID uint) ([]entity.Prescription, error)
	updateFn func(ctx context.Context, p *entity.Prescription) error
	searchFn func(ctx context.Context, patientID uint, query string) ([]entity.Prescription, error)
	deleteFn func(ctx context.Context, id uint) error
}

var _ repository.PrescriptionRepository = (*mockPrescriptions)(nil)

func (m *mockPrescriptions) Create(ctx context.Context, p *entity.Prescription) error {
	if m.createFn == nil {
		p.ID = 1
		return nil
	}
	return m.createFn(ctx, p)
}

func (m *mockPrescriptions) GetByID(ctx context.Context, id uint) (*entity.Prescription, error) {
	if m.getFn == nil {
		return nil, errNotFound
	}
	return m.getFn(ctx, id)
}

func (m *mockPrescriptions) GetByDocumentID(ctx context.Context, documentID uint) (*entity.Prescription, error) {
	if m.byDocFn == nil {
		return nil, errNotFound
	}
	return m.byDocFn(ctx, documentID)
}

func (m *mockPrescriptions) ListByPatient(ctx context.Context, patientID uint) ([]entity.Prescription, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, patientID)
}

func (m *mockPrescriptions) Update(ctx context.Context, p *entity.Prescription) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, p)
}

func (m *mockPrescriptions) SearchByMedicine(ctx context.Context, patientID uint, query string) ([]entity.Prescription, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, patientID, query)
}

func (m *mockPrescriptions) Delete(ctx context.Context, id uint) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

type mockReports struct {
	createFn func(ctx context.Context, r *entity.MedicalReport) error
	getFn    func(ctx context.Context, id uint) (*entity.MedicalReport, error)
	byDocFn  func(ctx context.Context, documentID uint) (*entity.MedicalReport, error)
	listFn   func(ctx context.Context, patientID uint, reportType string) ([]entity.MedicalReport, error)
	searchFn func(ctx context.Context, patientID uint, query string) ([]entity.MedicalReport, error)
	updateFn func(ctx context.Context, r *entity.MedicalReport) error
	deleteFn func(ctx context.Context, id uint) error
}

var _ repository.MedicalReportRepository = (*mockReports)(nil)

func (m *mockReports) Create(ctx context.Context, r *entity.MedicalReport) error {
	if m.createFn == nil {
		r.ID = 1
		return nil
	}
	return m.createFn(ctx, r)
}

func (m *mockReports) GetByID(ctx context.Context, id uint) (*entity.MedicalReport, error) {
	if m.getFn == nil {
		return nil, errNotFound
	}
	return m.getFn(ctx, id)
}

func (m *mockReports) GetByDocumentID(ctx context.Context, documentID uint) (*entity.MedicalReport, error) {
	if m.byDocFn == nil {
		return nil, errNotFound
	}
	return m.byDocFn(ctx, documentID)
}

func (m *mockReports) ListByPatient(ctx context.Context, patientID uint, reportType string) ([]entity.MedicalReport, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, patientID, reportType)
}

func (m *mockReports) Search(ctx context.Context, patientID uint, query string) ([]entity.MedicalReport, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, patientID, query)
}

func (m *mockReports) Update(ctx context.Context, r *entity.MedicalReport) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, r)
}

func (m *mockReports) Delete(ctx context.Context, id uint) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

type fakeParser struct {
	parseFn func(ctx context.Context, payload content.Payload, apiKey, hint string) aiparse.ExtractionResult
}

var _ aiparse.DocumentParser = (*fakeParser)(nil)

func (f *fakeParser) DetectDocumentType(context.Context, content.Payload, string) constants.DocumentCategory {
	return constants.CategoryUnknown
}

func (f *fakeParser) ParseDocument(ctx context.Context, payload content.Payload, apiKey, hint string) aiparse.ExtractionResult {
	return f.parseFn(ctx, payload, apiKey, hint)
}
