package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
)

// PrescriptionRepository provides access to parsed prescriptions.
type PrescriptionRepository interface {
	// Create persists the prescription together with its medicines.
	Create(ctx context.Context, p *entity.Prescription) error
	GetByID(ctx context.Context, id uint) (*entity.Prescription, error)
	GetByDocumentID(ctx context.Context, documentID uint) (*entity.Prescription, error)
	ListByPatient(ctx context.Context, patientID uint) ([]entity.Prescription, error)
	// Update saves the prescription and replaces its medicine rows with
	// the ones on the entity.
	Update(ctx context.Context, p *entity.Prescription) error
	// SearchByMedicine returns the patient's prescriptions containing a
	// medicine whose name matches the query case-insensitively.
	SearchByMedicine(ctx context.Context, patientID uint, query string) ([]entity.Prescription, error)
	Delete(ctx context.Context, id uint) error
}

type prescriptionRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPrescriptionRepository(db *gorm.DB, logger *slog.Logger) PrescriptionRepository {
	return &prescriptionRepository{db: db, logger: logger}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *entity.Prescription) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		r.logger.Error("repo.prescriptions.create_error", "document_id", p.DocumentID, "error", err)
		return common.NewAppError("DB_ERROR", "failed to create prescription", err)
	}
	r.logger.Info("repo.prescriptions.created",
		"prescription_id", p.ID,
		"document_id", p.DocumentID,
		"medicines", len(p.Medicines),
	)
	return nil
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id uint) (*entity.Prescription, error) {
	var p entity.Prescription
	err := r.db.WithContext(ctx).Preload("Medicines").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewAppError("NOT_FOUND", "prescription not found", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("repo.prescriptions.get_error", "prescription_id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to get prescription", err)
	}
	return &p, nil
}

func (r *prescriptionRepository) GetByDocumentID(ctx context.Context, documentID uint) (*entity.Prescription, error) {
	var p entity.Prescription
	err := r.db.WithContext(ctx).Preload("Medicines").
		Where("document_id = ?", documentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewAppError("NOT_FOUND", "prescription not found", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("repo.prescriptions.get_by_document_error", "document_id", documentID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to get prescription", err)
	}
	return &p, nil
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID uint) ([]entity.Prescription, error) {
	var prescriptions []entity.Prescription
	err := r.db.WithContext(ctx).Preload("Medicines").
		Where("patient_id = ?", patientID).
		Order("prescription_date desc nulls last, id desc").
		Find(&prescriptions).Error
	if err != nil {
		r.logger.Error("repo.prescriptions.list_error", "patient_id", patientID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to list prescriptions", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *entity.Prescription) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prescription_id = ?", p.ID).Delete(&entity.Medicine{}).Error; err != nil {
			return err
		}
		for i := range p.Medicines {
			p.Medicines[i].ID = 0
			p.Medicines[i].PrescriptionID = p.ID
		}
		return tx.Save(p).Error
	})
	if err != nil {
		r.logger.Error("repo.prescriptions.update_error", "prescription_id", p.ID, "error", err)
		return common.NewAppError("DB_ERROR", "failed to update prescription", err)
	}
	r.logger.Info("repo.prescriptions.updated", "prescription_id", p.ID, "medicines", len(p.Medicines))
	return nil
}

func (r *prescriptionRepository) SearchByMedicine(ctx context.Context, patientID uint, query string) ([]entity.Prescription, error) {
	pattern := "%" + query + "%"
	var prescriptions []entity.Prescription
	err := r.db.WithContext(ctx).Preload("Medicines").
		Distinct("prescriptions.*").
		Joins("JOIN medicines ON medicines.prescription_id = prescriptions.id").
		Where("prescriptions.patient_id = ?", patientID).
		Where("medicines.name ILIKE ?", pattern).
		Order("prescriptions.id desc").
		Find(&prescriptions).Error
	if err != nil {
		r.logger.Error("repo.prescriptions.search_error", "patient_id", patientID, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to search prescriptions", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Prescription{}, id)
	if res.Error != nil {
		r.logger.Error("repo.prescriptions.delete_error", "prescription_id", id, "error", res.Error)
		return common.NewAppError("DB_ERROR", "failed to delete prescription", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewAppError("NOT_FOUND", "prescription not found", common.ErrNotFound)
	}
	return nil
}
