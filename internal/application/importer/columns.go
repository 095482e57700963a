package importer

import (
	"strings"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain/naturalkey"
)

// columnAliases cabeceras aceptadas por campo, en orden de prioridad.
var columnAliases = map[string][]string{
	dto.ColumnName:          {dto.ColumnName, "Employee", "Employee Name", "Staff Member"},
	dto.ColumnPositionTitle: {dto.ColumnPositionTitle, "Position", "Job Title"},
	dto.ColumnDepartment:    {dto.ColumnDepartment},
	dto.ColumnType:          {dto.ColumnType, "Certificate Type", "Certificate", "Training"},
	dto.ColumnBookingDate:   {dto.ColumnBookingDate, "Issue Date"},
	dto.ColumnExpiryDate:    {dto.ColumnExpiryDate, "Expiration Date"},
	dto.ColumnCompany:       {dto.ColumnCompany, "Email"},
}

// row vista de una fila con cabeceras indexadas sin distinguir mayúsculas.
type row struct {
	values map[string]string
}

func newRow(raw dto.ImportRow) row {
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		key := naturalkey.Fold(k)
		if _, dup := values[key]; dup && strings.TrimSpace(v) == "" {
			continue
		}
		values[key] = strings.TrimSpace(v)
	}
	return row{values: values}
}

// get devuelve el primer valor no vacío entre las cabeceras aceptadas para column.
func (r row) get(column string) string {
	for _, alias := range columnAliases[column] {
		if v := r.values[naturalkey.Fold(alias)]; v != "" {
			return v
		}
	}
	return ""
}
