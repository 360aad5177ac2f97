package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
)

// MedicalReportRepository provides access to parsed medical reports.
type MedicalReportRepository interface {
	Create(ctx context.Context, m *entity.MedicalReport) error
	GetByID(ctx context.Context, id uint) (*entity.MedicalReport, error)
	GetByDocumentID(ctx context.Context, documentID uint) (*entity.MedicalReport, error)
	// ListByPatient returns reports for a patient, optionally filtered by
	// report type; newest report dates first.
	ListByPatient(ctx context.Context, patientID uint, reportType string) ([]entity.MedicalReport, error)
	// Search matches the query case-insensitively against the report's
	// searchable content and title.
	Search(ctx context.Context, patientID uint, query string) ([]entity.MedicalReport, error)
	Update(ctx context.Context, m *entity.MedicalReport) error
	Delete(ctx context.Context, id uint) error
}

type medicalReportRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewMedicalReportRepository(db *gorm.DB, logger *slog.Logger) MedicalReportRepository {
	return &medicalReportRepository{db: db, logger: logger}
}

func (r *medicalReportRepository) Create(ctx context.Context, m *entity.MedicalReport) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		r.logger.Error("repo.reports.create_error", "document_id", m.DocumentID, "error", err)
		return common.NewAppError("DB_ERROR", "failed to create medical report", err)
	}
	r.logger.Info("repo.reports.created",
		"report_id", m.ID,
		"document_id", m.DocumentID,
		"report_type", m.ReportType,
	)
	return nil
}

func (r *medicalReportRepository) GetByID(ctx context.Context, id uint) (*entity.MedicalReport, error) {
	var m entity.MedicalReport
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewAppError("NOT_FOUND", "medical report not found", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("repo.reports.get_error", "report_id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to get medical report", err)
	}
	return &m, nil
}

func (r *medicalReportRepository) GetByDocumentID(ctx context.Context, documentID uint) (*entity.MedicalReport, error) {
	var m entity.MedicalReport
	err := r.db.WithContext(ctx).Where("document_id = ?", documentID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewAppError("NOT_FOUND", "medical report not found", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("repo.reports.get_by_document_error", "document_id", documentID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to get medical report", err)
	}
	return &m, nil
}

func (r *medicalReportRepository) ListByPatient(ctx context.Context, patientID uint, reportType string) ([]entity.MedicalReport, error) {
	q := r.db.WithContext(ctx).Where("patient_id = ?", patientID)
	if reportType != "" {
		q = q.Where("report_type = ?", reportType)
	}
	var reports []entity.MedicalReport
	if err := q.Order("report_date desc nulls last, id desc").Find(&reports).Error; err != nil {
		r.logger.Error("repo.reports.list_error", "patient_id", patientID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to list medical reports", err)
	}
	return reports, nil
}

func (r *medicalReportRepository) Search(ctx context.Context, patientID uint, query string) ([]entity.MedicalReport, error) {
	pattern := "%" + query + "%"
	var reports []entity.MedicalReport
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Where("searchable_content ILIKE ? OR report_title ILIKE ?", pattern, pattern).
		Order("report_date desc nulls last, id desc").
		Find(&reports).Error
	if err != nil {
		r.logger.Error("repo.reports.search_error", "patient_id", patientID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to search medical reports", err)
	}
	return reports, nil
}

func (r *medicalReportRepository) Update(ctx context.Context, m *entity.MedicalReport) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		r.logger.Error("repo.reports.update_error", "report_id", m.ID, "error", err)
		return common.NewAppError("DB_ERROR", "failed to update medical report", err)
	}
	r.logger.Info("repo.reports.updated", "report_id", m.ID)
	return nil
}

func (r *medicalReportRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.MedicalReport{}, id)
	if res.Error != nil {
		r.logger.Error("repo.reports.delete_error", "report_id", id, "error", res.Error)
		return common.NewAppError("DB_ERROR", "failed to delete medical report", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewAppError("NOT_FOUND", "medical report not found", common.ErrNotFound)
	}
	return nil
}
