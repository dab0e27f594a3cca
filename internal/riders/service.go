package riders

import (
	"context"
	"errors"
	"strings"

	"github.com/bicisena/bicisena-backend/pkg/config"
	"github.com/bicisena/bicisena-backend/pkg/db"
	"github.com/bicisena/bicisena-backend/pkg/db/models"
	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
	"github.com/bicisena/bicisena-backend/pkg/logger"
	"github.com/bicisena/bicisena-backend/pkg/media"
	"github.com/bicisena/bicisena-backend/pkg/metrics"
	"github.com/bicisena/bicisena-backend/pkg/qr"
	"github.com/bicisena/bicisena-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	msgRegistered        = "Usuario creado con éxito"
	msgCedulaTaken       = "Esta cédula ya está registrada"
	msgCodigoTaken       = "Este código ya está asignado a otro usuario"
	msgInvalidCredential = "Credenciales inválidas"
	msgRiderNotFound     = "Estudiante no encontrado"

	// dummyPassword is hashed once so unknown cedulas cost the same bcrypt
	// comparison as known ones.
	dummyPassword = "bicisena-unknown-rider"
)

// Service implements registration, login and gate scans.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ScanByCode(ctx context.Context, codigo string) (*ScanResponse, error)
}

type riderReader interface {
	FindByCedula(ctx context.Context, cedula string) (*models.Rider, error)
	FindByCodigo(ctx context.Context, codigo string) (*models.Rider, error)
}

type riderStore interface {
	riderReader
	Create(ctx context.Context, dto CreateRiderDTO) (*models.Rider, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams packages the dependencies of the rider service.
type ServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
	QR             *qr.Encoder
	Photos         *media.PhotoValidator
	Metrics        *metrics.DomainMetrics
	Logger         *logger.Logger
}

type service struct {
	tx          txRunner
	reader      riderReader
	storeFor    func(tx *gorm.DB) riderStore
	passwordCfg config.PasswordConfig
	qr          *qr.Encoder
	photos      *media.PhotoValidator
	metrics     *metrics.DomainMetrics
	logg        *logger.Logger
	dummyHash   string
}

// NewService builds the rider service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.QR == nil {
		params.QR = qr.NewEncoder(config.QRConfig{})
	}
	if params.Photos == nil {
		params.Photos = media.NewPhotoValidator(0)
	}
	dummyHash, err := security.HashPassword(dummyPassword, params.PasswordConfig)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash dummy password")
	}
	return &service{
		tx:          params.DB,
		reader:      NewRepository(params.DB.DB()),
		storeFor:    func(tx *gorm.DB) riderStore { return NewRepository(tx) },
		passwordCfg: params.PasswordConfig,
		qr:          params.QR,
		photos:      params.Photos,
		metrics:     params.Metrics,
		logg:        params.Logger,
		dummyHash:   dummyHash,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	input = input.normalized()
	if missing := input.missingFields(); len(missing) > 0 {
		s.metrics.IncRegistration(metrics.ResultInvalid)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "faltan campos obligatorios").WithDetails(missing)
	}
	if strings.Contains(input.Codigo, "/") {
		s.metrics.IncRegistration(metrics.ResultInvalid)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
			WithDetails(map[string]string{"codigo": "no puede contener \"/\""})
	}
	if len(input.Contrasena) > security.MaxPasswordBytes {
		s.metrics.IncRegistration(metrics.ResultInvalid)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "datos inválidos").
			WithDetails(map[string]string{"contrasena": "debe tener como máximo 72 caracteres"})
	}
	if err := s.validatePhotos(input); err != nil {
		s.metrics.IncRegistration(metrics.ResultInvalid)
		return nil, err
	}

	passwordHash, err := security.HashPassword(input.Contrasena, s.passwordCfg)
	if err != nil {
		s.metrics.IncRegistration(metrics.ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	qrPNG, err := s.qr.EncodePNG(input.Codigo)
	if err != nil {
		s.metrics.IncRegistration(metrics.ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate qr")
	}

	var created *models.Rider
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.storeFor(tx)

		if _, err := store.FindByCedula(ctx, input.Cedula); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, msgCedulaTaken)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check rider cedula")
		}
		if _, err := store.FindByCodigo(ctx, input.Codigo); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, msgCodigoTaken)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check rider codigo")
		}

		rider, err := store.Create(ctx, CreateRiderDTO{
			Nombre:          input.Nombre,
			Cedula:          input.Cedula,
			Telefono:        input.Telefono,
			Correo:          input.Correo,
			PasswordHash:    passwordHash,
			Codigo:          input.Codigo,
			QRBlob:          qrPNG,
			FotoBiciBlob:    input.FotoBici,
			FotoUsuarioBlob: input.FotoUsuario,
		})
		if err != nil {
			return mapCreateError(err)
		}
		created = rider
		return nil
	})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			s.metrics.IncRegistration(metrics.ResultConflict)
		} else {
			s.metrics.IncRegistration(metrics.ResultError)
		}
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register rider")
		}
		return nil, err
	}

	s.metrics.IncRegistration(metrics.ResultSuccess)
	if s.logg != nil {
		logCtx := s.logg.WithRiderID(ctx, created.ID.String())
		s.logg.Info(logCtx, "rider.registered")
	}
	return &RegisterResult{Mensaje: msgRegistered, Codigo: created.Codigo}, nil
}

func (s *service) validatePhotos(input RegisterInput) error {
	details := map[string]string{}
	for field, data := range map[string][]byte{
		"foto_bici":    input.FotoBici,
		"foto_usuario": input.FotoUsuario,
	} {
		if _, err := s.photos.Validate(field, data); err != nil {
			var photoErr *media.PhotoError
			if errors.As(err, &photoErr) {
				details[field] = photoErr.Reason
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate photo")
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "foto inválida").WithDetails(details)
	}
	return nil
}

// mapCreateError turns a unique index violation raised by a concurrent
// registration into the same conflict the pre-insert checks report.
func mapCreateError(err error) error {
	switch {
	case db.UniqueViolationOn(err, "usuarios", "cedula"):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCedulaTaken)
	case db.UniqueViolationOn(err, "usuarios", "codigo"):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCodigoTaken)
	case db.IsUniqueViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgCedulaTaken)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create rider")
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	cedula := strings.TrimSpace(req.Cedula)
	if cedula == "" || req.Contrasena == "" {
		s.metrics.IncLogin(metrics.ResultInvalid)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cédula y contraseña son obligatorias")
	}

	rider, err := s.reader.FindByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_, _ = security.VerifyPassword(req.Contrasena, s.dummyHash)
			s.metrics.IncLogin(metrics.ResultRejected)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgInvalidCredential)
		}
		s.metrics.IncLogin(metrics.ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rider")
	}

	ok, err := security.VerifyPassword(req.Contrasena, rider.PasswordHash)
	if err != nil {
		s.metrics.IncLogin(metrics.ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		s.metrics.IncLogin(metrics.ResultRejected)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msgInvalidCredential)
	}

	qrPNG := rider.QRBlob
	if len(qrPNG) == 0 {
		qrPNG, err = s.qr.EncodePNG(rider.Codigo)
		if err != nil {
			s.metrics.IncLogin(metrics.ResultError)
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate qr")
		}
	}

	s.metrics.IncLogin(metrics.ResultSuccess)
	if s.logg != nil {
		s.logg.Info(s.logg.WithRiderID(ctx, rider.ID.String()), "rider.login")
	}
	return &LoginResponse{
		Nombre:          rider.Nombre,
		Cedula:          rider.Cedula,
		Telefono:        rider.Telefono,
		Correo:          rider.Correo,
		Codigo:          rider.Codigo,
		QRBlob:          encodeBlob(qrPNG),
		FotoBiciBlob:    encodeBlob(rider.FotoBiciBlob),
		FotoUsuarioBlob: encodeBlob(rider.FotoUsuarioBlob),
	}, nil
}

func (s *service) ScanByCode(ctx context.Context, codigo string) (*ScanResponse, error) {
	if codigo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el código es obligatorio")
	}
	rider, err := s.reader.FindByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgRiderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rider by codigo")
	}
	return newScanResponse(rider), nil
}
