package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComplianceSnapshot registro histórico de la tasa de cumplimiento de la organización.
type ComplianceSnapshot struct {
	ID                 string
	TakenAt            time.Time
	TotalInstances     int
	CompliantInstances int
	Rate               decimal.Decimal // fracción 0..1
}
