package dto

// Claves reconocidas en las filas de importación.
const (
	ColumnName          = "Name"
	ColumnPositionTitle = "Position Title"
	ColumnDepartment    = "Department"
	ColumnType          = "Type"
	ColumnBookingDate   = "Booking Date"
	ColumnExpiryDate    = "Expiry Date"
	ColumnCompany       = "Company"
)

// ImportRow fila cruda tal como viene de la hoja de cálculo (cabecera → valor).
type ImportRow map[string]string

// Resultados posibles de una fila.
const (
	OutcomeCreatedPosition = "created-position"
	OutcomeCreatedEmployee = "created-employee"
	OutcomeCreatedCertType = "created-certType"
	OutcomeProcessed       = "processed"
	OutcomeError           = "error"
)

// ImportResult respuesta de una carga masiva. El éxito parcial es un resultado normal.
type ImportResult struct {
	Message  string       `json:"message"`
	Stats    ImportStats  `json:"stats"`
	Outcomes []RowOutcome `json:"outcomes,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
	// Interrupted indica que el lote se detuvo en un límite de fila (cancelación o fallo de almacenamiento).
	Interrupted bool `json:"interrupted,omitempty"`
}

// ImportStats contadores del lote.
type ImportStats struct {
	Total          int        `json:"total"`
	ProcessedCount int        `json:"processedCount"`
	NewPositions   int        `json:"newPositions"`
	NewEmployees   int        `json:"newEmployees"`
	NewCertTypes   int        `json:"newCertTypes"`
	Errors         []RowError `json:"errors"`
}

// RowError motivo por el que una fila no se procesó. Row es 1-based sobre las filas de datos.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// RowOutcome resultado de una fila.
type RowOutcome struct {
	Row           int      `json:"row"`
	Outcomes      []string `json:"outcomes"`
	CertificateID string   `json:"certificate_id,omitempty"`
	Reason        string   `json:"reason,omitempty"`
}
