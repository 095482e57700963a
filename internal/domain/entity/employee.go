package entity

import "time"

// Employee empleado normalizado: Positions sin duplicados y PrimaryPosition miembro de Positions
// (o vacío si no tiene cargos). Active=false lo excluye del cálculo de cumplimiento.
type Employee struct {
	ID              string
	Name            string
	Email           string
	Positions       []string
	PrimaryPosition string // "" equivale a null
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPosition indica si el cargo está asignado al empleado.
func (e *Employee) HasPosition(positionID string) bool {
	for _, id := range e.Positions {
		if id == positionID {
			return true
		}
	}
	return false
}

// Raw convierte el empleado a su forma almacenable.
func (e *Employee) Raw() *RawEmployee {
	positions := make([]any, 0, len(e.Positions))
	for _, id := range e.Positions {
		positions = append(positions, id)
	}
	var primary any
	if e.PrimaryPosition != "" {
		primary = e.PrimaryPosition
	}
	return &RawEmployee{
		ID:              e.ID,
		Name:            e.Name,
		Email:           e.Email,
		Positions:       positions,
		PrimaryPosition: primary,
		Active:          e.Active,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// RawEmployee empleado tal como está almacenado. Los datos heredados pueden traer en
// Positions/PrimaryPosition ids, cadenas, objetos embebidos u ObjectIDs; el normalizador
// de cargos los convierte en un Employee válido.
type RawEmployee struct {
	ID              string
	Name            string
	Email           string
	Positions       []any
	PrimaryPosition any
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
