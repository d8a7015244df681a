package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-matcher/internal/models"
)

type AuditRepository interface {
	Create(ctx context.Context, audit *models.AnalysisAudit) error
	Ping(ctx context.Context) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Create implements AuditRepository.
func (r *auditRepository) Create(ctx context.Context, audit *models.AnalysisAudit) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to create analysis audit: %w", err)
	}

	return nil
}

// Ping implements AuditRepository.
func (r *auditRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

type noopAuditRepository struct{}

// NewNoopAuditRepository is used when auditing is disabled.
func NewNoopAuditRepository() AuditRepository {
	return noopAuditRepository{}
}

func (noopAuditRepository) Create(context.Context, *models.AnalysisAudit) error { return nil }

func (noopAuditRepository) Ping(context.Context) error { return nil }
