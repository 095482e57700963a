package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
)

func TestRenderComplianceReport_GeneraPDF(t *testing.T) {
	days := -5
	report := &dto.ComplianceResponse{
		Scope:              dto.ComplianceScopeAll,
		ComputedAt:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		TotalInstances:     2,
		CompliantInstances: 1,
		Rate:               decimal.RequireFromString("0.5"),
		RatePercent:        decimal.RequireFromString("50"),
		Positions: []dto.PositionComplianceDTO{
			{PositionID: "p1", Title: "Welder", Employees: 2, Requirements: 1, TotalInstances: 2, CompliantInstances: 1,
				Rate: decimal.RequireFromString("0.5"), RatePercent: decimal.RequireFromString("50"), Scored: true},
			{PositionID: "p2", Title: "Vacante"},
		},
		Requirements: []dto.RequirementComplianceDTO{
			{EmployeeName: "John Smith", PositionTitle: "Welder", CertificateTypeName: "First Aid", IsCompliant: true},
			{EmployeeName: "Ana Ruiz", PositionTitle: "Welder", CertificateTypeName: "First Aid", DaysUntilExpiration: &days,
				MatchedCertificate: &dto.CertificateSummary{ID: "c1", Status: "Expired"}},
		},
	}

	doc, err := NewComplianceReportGenerator("ACME").RenderComplianceReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestPendingRows_SoloNoCumplidos(t *testing.T) {
	rows := pendingRows([]dto.RequirementComplianceDTO{
		{EmployeeName: "a", IsCompliant: true},
		{EmployeeName: "b"},
		{EmployeeName: "c"},
	})
	assert.Len(t, rows, 2)
}

func TestRateColor(t *testing.T) {
	assert.Equal(t, colorPrimary, rateColor(95))
	assert.Equal(t, colorWarning, rateColor(60))
	assert.Equal(t, colorDanger, rateColor(10))
}
