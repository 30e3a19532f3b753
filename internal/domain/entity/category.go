package entity

import "time"

// Category clasifica testimonios (catálogo de solo lectura para la API).
type Category struct {
	ID        string
	Name      string
	Icon      string
	Color     string // hex, p.ej. #1f6feb
	CreatedAt time.Time
}
