package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rider is a registered user of the bicycle parking, persisted in usuarios.
// Rows are written once at registration and never updated.
type Rider struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre          string    `gorm:"column:nombre;not null"`
	Cedula          string    `gorm:"column:cedula;size:32;not null;uniqueIndex:usuarios_cedula_key"`
	Telefono        string    `gorm:"column:telefono;not null"`
	Correo          string    `gorm:"column:correo;not null"`
	PasswordHash    string    `gorm:"column:contrasena;not null"`
	Codigo          string    `gorm:"column:codigo;size:128;not null;uniqueIndex:usuarios_codigo_key"`
	QRBlob          []byte    `gorm:"column:qr_blob"`
	FotoBiciBlob    []byte    `gorm:"column:foto_bici_blob;not null"`
	FotoUsuarioBlob []byte    `gorm:"column:foto_usuario_blob;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Rider) TableName() string {
	return "usuarios"
}

// BeforeCreate assigns the internal id so every dialect gets the same key format.
func (r *Rider) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
