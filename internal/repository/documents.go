package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
)

// DocumentRepository provides access to uploaded documents.
type DocumentRepository interface {
	Create(ctx context.Context, d *entity.Document) error
	GetByID(ctx context.Context, id uint) (*entity.Document, error)
	// List returns documents for a patient, optionally filtered by
	// document type; newest uploads first.
	List(ctx context.Context, patientID uint, documentType string) ([]entity.Document, error)
	Update(ctx context.Context, d *entity.Document) error
	Delete(ctx context.Context, id uint) error
}

type documentRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDocumentRepository(db *gorm.DB, logger *slog.Logger) DocumentRepository {
	return &documentRepository{db: db, logger: logger}
}

func (r *documentRepository) Create(ctx context.Context, d *entity.Document) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		r.logger.Error("repo.documents.create_error", "error", err)
		return common.NewAppError("DB_ERROR", "failed to create document", err)
	}
	r.logger.Info("repo.documents.created", "document_id", d.ID, "patient_id", d.PatientID)
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uint) (*entity.Document, error) {
	var d entity.Document
	err := r.db.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewAppError("NOT_FOUND", "document not found", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("repo.documents.get_error", "document_id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to get document", err)
	}
	return &d, nil
}

func (r *documentRepository) List(ctx context.Context, patientID uint, documentType string) ([]entity.Document, error) {
	q := r.db.WithContext(ctx).Where("patient_id = ?", patientID)
	if documentType != "" {
		q = q.Where("document_type = ?", documentType)
	}
	var docs []entity.Document
	if err := q.Order("upload_date desc").Find(&docs).Error; err != nil {
		r.logger.Error("repo.documents.list_error", "patient_id", patientID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to list documents", err)
	}
	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, d *entity.Document) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		r.logger.Error("repo.documents.update_error", "document_id", d.ID, "error", err)
		return common.NewAppError("DB_ERROR", "failed to update document", err)
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Document{}, id)
	if res.Error != nil {
		r.logger.Error("repo.documents.delete_error", "document_id", id, "error", res.Error)
		return common.NewAppError("DB_ERROR", "failed to delete document", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewAppError("NOT_FOUND", "document not found", common.ErrNotFound)
	}
	r.logger.Info("repo.documents.deleted", "document_id", id)
	return nil
}
