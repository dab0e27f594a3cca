package movements

import (
	"context"
	"errors"
	"fmt"

	"github.com/bicisena/bicisena-backend/internal/riders"
	"github.com/bicisena/bicisena-backend/pkg/config"
	"github.com/bicisena/bicisena-backend/pkg/db"
	"github.com/bicisena/bicisena-backend/pkg/db/models"
	"github.com/bicisena/bicisena-backend/pkg/enums"
	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
	"github.com/bicisena/bicisena-backend/pkg/logger"
	"github.com/bicisena/bicisena-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	msgRiderNotFound = "Estudiante no encontrado"
)

// Service records gate movements and reports rider presence.
type Service interface {
	Record(ctx context.Context, codigo, accion string) (*RecordResult, error)
	History(ctx context.Context, codigo string, limit int) (*HistoryResult, error)
}

type riderLookup interface {
	FindByCodigo(ctx context.Context, codigo string) (*models.Rider, error)
}

type movementStore interface {
	LockRider(ctx context.Context, riderID uuid.UUID) error
	Append(ctx context.Context, riderID uuid.UUID, action enums.MovementAction) (*models.Movement, error)
	ListByRider(ctx context.Context, riderID uuid.UUID, limit int) ([]models.Movement, error)
	LastByRider(ctx context.Context, riderID uuid.UUID) (*models.Movement, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages the dependencies of the movements service.
type ServiceParams struct {
	DB      *db.Client
	Config  config.MovementsConfig
	Metrics *metrics.DomainMetrics
	Logger  *logger.Logger
}

type service struct {
	tx                 txRunner
	riders             riderLookup
	store              movementStore
	storeFor           func(tx *gorm.DB) movementStore
	enforceAlternation bool
	metrics            *metrics.DomainMetrics
	logg               *logger.Logger
}

// NewService builds the movements service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{
		tx:                 params.DB,
		riders:             riders.NewRepository(params.DB.DB()),
		store:              NewRepository(params.DB.DB()),
		storeFor:           func(tx *gorm.DB) movementStore { return NewRepository(tx) },
		enforceAlternation: params.Config.EnforceAlternation,
		metrics:            params.Metrics,
		logg:               params.Logger,
	}, nil
}

func (s *service) Record(ctx context.Context, codigo, accion string) (*RecordResult, error) {
	action, err := enums.ParseMovementAction(accion)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "acción inválida").
			WithDetails(map[string]string{"accion": "debe ser Entrada o Salida"})
	}

	rider, err := s.resolveRider(ctx, codigo)
	if err != nil {
		return nil, err
	}

	var movement *models.Movement
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.storeFor(tx)
		if s.enforceAlternation {
			if err := store.LockRider(ctx, rider.ID); err != nil {
				return mapStoreError(err, "lock rider")
			}
			if err := checkAlternation(ctx, store, rider.ID, action); err != nil {
				return err
			}
		}
		created, err := store.Append(ctx, rider.ID, action)
		if err != nil {
			return mapStoreError(err, "append movement")
		}
		movement = created
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record movement")
		}
		return nil, err
	}

	s.metrics.IncMovement(action.String())
	if s.logg != nil {
		logCtx := s.logg.WithRiderID(ctx, rider.ID.String())
		logCtx = s.logg.WithField(logCtx, "accion", action.String())
		s.logg.Info(logCtx, "movement.recorded")
	}

	return &RecordResult{
		Mensaje: fmt.Sprintf("%s registrada para %s", action, rider.Nombre),
		Codigo:  rider.Codigo,
		Nombre:  rider.Nombre,
		Accion:  movement.Accion,
		Fecha:   movement.Fecha,
	}, nil
}

func mapStoreError(err error, op string) error {
	if errors.Is(err, ErrRiderNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgRiderNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}

// checkAlternation rejects an action equal to the rider's previous one. A
// rider with no history may start with either action.
func checkAlternation(ctx context.Context, store movementStore, riderID uuid.UUID, action enums.MovementAction) error {
	last, err := store.LastByRider(ctx, riderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load last movement")
	}
	if last.Accion == action {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("la última acción registrada ya fue %s", action)).
			WithDetails(map[string]any{
				"ultima_accion":   last.Accion,
				"accion_esperada": action.Opposite(),
			})
	}
	return nil
}

func (s *service) History(ctx context.Context, codigo string, limit int) (*HistoryResult, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rider, err := s.resolveRider(ctx, codigo)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListByRider(ctx, rider.ID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movements")
	}

	state := enums.PresenceNoRecords
	if len(rows) > 0 {
		state = enums.PresenceAfter(rows[0].Accion)
	}
	return &HistoryResult{
		Codigo:      rider.Codigo,
		Nombre:      rider.Nombre,
		Estado:      state,
		Movimientos: newMovementItems(rows),
	}, nil
}

func (s *service) resolveRider(ctx context.Context, codigo string) (*models.Rider, error) {
	if codigo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el código es obligatorio")
	}
	rider, err := s.riders.FindByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgRiderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rider by codigo")
	}
	return rider, nil
}
