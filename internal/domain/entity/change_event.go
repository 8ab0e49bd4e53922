package entity

import "time"

// Tipos de evento del canal de notificaciones.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
	EventAny    = "*"
)

// ChangeEvent "algo cambió en la tabla X". Los consumidores solo usan el hecho, no el contenido.
type ChangeEvent struct {
	Event    string    `json:"event"`
	Table    string    `json:"table"`
	RecordID string    `json:"record_id,omitempty"`
	TenantID string    `json:"tenant_id,omitempty"`
	At       time.Time `json:"at"`
}
