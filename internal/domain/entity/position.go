package entity

import "time"

// Position representa un cargo con requisitos de certificación.
// Title es la clave natural (única, sin distinguir mayúsculas). Nunca se borra: se desactiva.
type Position struct {
	ID         string
	Title      string
	Department string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
