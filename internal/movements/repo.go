package movements

import (
	"context"
	"errors"

	"github.com/bicisena/bicisena-backend/pkg/db/models"
	"github.com/bicisena/bicisena-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRiderNotFound is returned when appending for a rider that does not exist.
var ErrRiderNotFound = errors.New("rider not found")

// Repository persists gate movements in registros. Rows are only ever appended.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a movements repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LockRider takes a row lock on the rider for the rest of the transaction,
// serializing movements of the same rider. SQLite ignores the locking clause.
func (r *Repository) LockRider(ctx context.Context, riderID uuid.UUID) error {
	var rider models.Rider
	err := lockRiderQuery(r.db.WithContext(ctx), riderID).Take(&rider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRiderNotFound
	}
	return err
}

func lockRiderQuery(db *gorm.DB, riderID uuid.UUID) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", riderID)
}

// Append records one movement for riderID.
func (r *Repository) Append(ctx context.Context, riderID uuid.UUID, action enums.MovementAction) (*models.Movement, error) {
	if err := r.LockRider(ctx, riderID); err != nil {
		return nil, err
	}

	movement := &models.Movement{UsuarioID: riderID, Accion: action}
	if err := r.db.WithContext(ctx).Omit("Rider").Create(movement).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

// ListByRider returns up to limit movements, newest first.
func (r *Repository) ListByRider(ctx context.Context, riderID uuid.UUID, limit int) ([]models.Movement, error) {
	var rows []models.Movement
	query := r.db.WithContext(ctx).
		Where("usuario_id = ?", riderID).
		Order("fecha DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LastByRider returns the most recent movement, or gorm.ErrRecordNotFound.
func (r *Repository) LastByRider(ctx context.Context, riderID uuid.UUID) (*models.Movement, error) {
	var movement models.Movement
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", riderID).
		Order("fecha DESC").
		Order("id DESC").
		First(&movement).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}
