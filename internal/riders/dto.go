package riders

import (
	"encoding/base64"
	"strings"

	"github.com/bicisena/bicisena-backend/pkg/db/models"
)

// CreateRiderDTO carries every column written at registration.
type CreateRiderDTO struct {
	Nombre          string
	Cedula          string
	Telefono        string
	Correo          string
	PasswordHash    string
	Codigo          string
	QRBlob          []byte
	FotoBiciBlob    []byte
	FotoUsuarioBlob []byte
}

// ToModel builds the GORM model for insertion.
func (dto CreateRiderDTO) ToModel() *models.Rider {
	return &models.Rider{
		Nombre:          dto.Nombre,
		Cedula:          dto.Cedula,
		Telefono:        dto.Telefono,
		Correo:          dto.Correo,
		PasswordHash:    dto.PasswordHash,
		Codigo:          dto.Codigo,
		QRBlob:          dto.QRBlob,
		FotoBiciBlob:    dto.FotoBiciBlob,
		FotoUsuarioBlob: dto.FotoUsuarioBlob,
	}
}

// RegisterInput is the registration form. Tags mirror the multipart field names.
type RegisterInput struct {
	Nombre      string `json:"nombre" validate:"required,max=120"`
	Cedula      string `json:"cedula" validate:"required,max=32"`
	Telefono    string `json:"telefono" validate:"required,max=32"`
	Correo      string `json:"correo" validate:"required,email,max=254"`
	Contrasena  string `json:"contrasena" validate:"required,max=72"`
	Codigo      string `json:"codigo" validate:"required,max=128,printascii,excludesall=/"`
	FotoBici    []byte `json:"foto_bici" validate:"required"`
	FotoUsuario []byte `json:"foto_usuario" validate:"required"`
}

func (in RegisterInput) normalized() RegisterInput {
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Cedula = strings.TrimSpace(in.Cedula)
	in.Telefono = strings.TrimSpace(in.Telefono)
	in.Correo = strings.TrimSpace(in.Correo)
	in.Codigo = strings.TrimSpace(in.Codigo)
	return in
}

// missingFields lists the json names of empty required fields.
func (in RegisterInput) missingFields() map[string]string {
	missing := map[string]string{}
	check := func(name, value string) {
		if value == "" {
			missing[name] = "es obligatorio"
		}
	}
	check("nombre", in.Nombre)
	check("cedula", in.Cedula)
	check("telefono", in.Telefono)
	check("correo", in.Correo)
	check("contrasena", in.Contrasena)
	check("codigo", in.Codigo)
	if len(in.FotoBici) == 0 {
		missing["foto_bici"] = "es obligatorio"
	}
	if len(in.FotoUsuario) == 0 {
		missing["foto_usuario"] = "es obligatorio"
	}
	return missing
}

// RegisterResult confirms a registration.
type RegisterResult struct {
	Mensaje string `json:"mensaje"`
	Codigo  string `json:"codigo"`
}

// LoginRequest is the JSON body of the login endpoint.
type LoginRequest struct {
	Cedula     string `json:"cedula" validate:"required,max=32"`
	Contrasena string `json:"contrasena" validate:"required,max=72"`
}

// LoginResponse is returned to the rider app. Binary fields are base64.
type LoginResponse struct {
	Nombre          string `json:"nombre"`
	Cedula          string `json:"cedula"`
	Telefono        string `json:"telefono"`
	Correo          string `json:"correo"`
	Codigo          string `json:"codigo"`
	QRBlob          string `json:"qr_blob"`
	FotoBiciBlob    string `json:"foto_bici_blob"`
	FotoUsuarioBlob string `json:"foto_usuario_blob"`
}

// ScanResponse is returned to the gate attendant. It never carries the QR
// image nor the password hash.
type ScanResponse struct {
	Nombre          string `json:"nombre"`
	Cedula          string `json:"cedula"`
	Telefono        string `json:"telefono"`
	Correo          string `json:"correo"`
	Codigo          string `json:"codigo"`
	FotoBiciBlob    string `json:"foto_bici_blob"`
	FotoUsuarioBlob string `json:"foto_usuario_blob"`
}

func newScanResponse(rider *models.Rider) *ScanResponse {
	return &ScanResponse{
		Nombre:          rider.Nombre,
		Cedula:          rider.Cedula,
		Telefono:        rider.Telefono,
		Correo:          rider.Correo,
		Codigo:          rider.Codigo,
		FotoBiciBlob:    encodeBlob(rider.FotoBiciBlob),
		FotoUsuarioBlob: encodeBlob(rider.FotoUsuarioBlob),
	}
}

func encodeBlob(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
