package riders

import (
	"context"

	"github.com/bicisena/bicisena-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes rider persistence operations over the usuarios table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a riders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new rider and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateRiderDTO) (*models.Rider, error) {
	rider := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(rider).Error; err != nil {
		return nil, err
	}
	return rider, nil
}

// FindByCedula retrieves the rider registered under the given cedula.
func (r *Repository) FindByCedula(ctx context.Context, cedula string) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).Where("cedula = ?", cedula).First(&rider).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

// FindByCodigo retrieves the rider whose QR payload is exactly codigo.
func (r *Repository) FindByCodigo(ctx context.Context, codigo string) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&rider).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}
