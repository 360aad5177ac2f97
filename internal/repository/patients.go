package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/entity"
)

// PatientRepository provides access to patient records.
type PatientRepository interface {
	Create(ctx context.Context, p *entity.Patient) error
	GetByID(ctx context.Context, id uint) (*entity.Patient, error)
	List(ctx context.Context) ([]entity.Patient, error)
	Update(ctx context.Context, p *entity.Patient) error
	Delete(ctx context.Context, id uint) error
}

type patientRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPatientRepository(db *gorm.DB, logger *slog.Logger) PatientRepository {
	return &patientRepository{db: db, logger: logger}
}

func (r *patientRepository) Create(ctx context.Context, p *entity.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		r.logger.Error("repo.patients.create_error", "error", err)
		return common.NewAppError("DB_ERROR", "failed to create patient", err)
	}
	r.logger.Info("repo.patients.created", "patient_id", p.ID)
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, id uint) (*entity.Patient, error) {
	var p entity.Patient
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NewAppError("NOT_FOUND", "patient not found", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("repo.patients.get_error", "patient_id", id, "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to get patient", err)
	}
	return &p, nil
}

func (r *patientRepository) List(ctx context.Context) ([]entity.Patient, error) {
	var patients []entity.Patient
	if err := r.db.WithContext(ctx).Order("name asc").Find(&patients).Error; err != nil {
		r.logger.Error("repo.patients.list_error", "error", err)
		return nil, common.NewAppError("DB_ERROR", "failed to list patients", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, p *entity.Patient) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		r.logger.Error("repo.patients.update_error", "patient_id", p.ID, "error", err)
		return common.NewAppError("DB_ERROR", "failed to update patient", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Patient{}, id)
	if res.Error != nil {
		r.logger.Error("repo.patients.delete_error", "patient_id", id, "error", res.Error)
		return common.NewAppError("DB_ERROR", "failed to delete patient", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewAppError("NOT_FOUND", "patient not found", common.ErrNotFound)
	}
	r.logger.Info("repo.patients.deleted", "patient_id", id)
	return nil
}
