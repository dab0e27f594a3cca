package models

import (
	"time"

	"github.com/bicisena/bicisena-backend/pkg/enums"
	"github.com/google/uuid"
)

// Movement is an append-only gate event stored in registros.
type Movement struct {
	ID        uint64               `gorm:"primaryKey;autoIncrement"`
	UsuarioID uuid.UUID            `gorm:"column:usuario_id;type:uuid;not null;index:registros_usuario_id_idx"`
	Accion    enums.MovementAction `gorm:"column:accion;type:varchar(16);not null"`
	Fecha     time.Time            `gorm:"column:fecha;autoCreateTime"`

	Rider *Rider `gorm:"foreignKey:UsuarioID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (Movement) TableName() string {
	return "registros"
}
