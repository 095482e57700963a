package dto

// FixSummary resultado del job de reparación de cargos: {fixed, skipped, errors}.
type FixSummary struct {
	Total     int              `json:"total"`
	Fixed     int              `json:"fixed"`
	Unchanged int              `json:"unchanged"`
	Skipped   int              `json:"skipped"`
	DryRun    bool             `json:"dry_run"`
	Errors    []RecordError    `json:"errors"`
	Changes   []EmployeeChange `json:"changes,omitempty"`
}

// RecordError error de un registro concreto de un lote.
type RecordError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// EmployeeChange cambios aplicados (o que se aplicarían) a un empleado.
type EmployeeChange struct {
	EmployeeID       string   `json:"employee_id"`
	Name             string   `json:"name"`
	PositionsRemoved []string `json:"positions_removed,omitempty"`
	PositionsAdded   []string `json:"positions_added,omitempty"`
	PrimaryChanged   bool     `json:"primary_changed"`
	Warnings         []string `json:"warnings,omitempty"`
}

// EmployeeDTO empleado normalizado para salida JSON.
type EmployeeDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	Positions       []string `json:"positions"`
	PrimaryPosition string   `json:"primary_position,omitempty"`
	Active          bool     `json:"active"`
}
