package movements

import (
	"time"

	"github.com/bicisena/bicisena-backend/pkg/db/models"
	"github.com/bicisena/bicisena-backend/pkg/enums"
)

// RecordResult confirms a recorded gate movement.
type RecordResult struct {
	Mensaje string               `json:"mensaje"`
	Codigo  string               `json:"codigo"`
	Nombre  string               `json:"nombre"`
	Accion  enums.MovementAction `json:"accion"`
	Fecha   time.Time            `json:"fecha"`
}

// MovementItem is one row of a rider's history.
type MovementItem struct {
	ID     uint64               `json:"id"`
	Accion enums.MovementAction `json:"accion"`
	Fecha  time.Time            `json:"fecha"`
}

// HistoryResult lists a rider's recent movements and the presence they imply.
type HistoryResult struct {
	Codigo      string              `json:"codigo"`
	Nombre      string              `json:"nombre"`
	Estado      enums.PresenceState `json:"estado"`
	Movimientos []MovementItem      `json:"movimientos"`
}

func newMovementItems(rows []models.Movement) []MovementItem {
	items := make([]MovementItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MovementItem{ID: row.ID, Accion: row.Accion, Fecha: row.Fecha})
	}
	return items
}
