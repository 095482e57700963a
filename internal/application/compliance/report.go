package compliance

import (
	"context"
	"fmt"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
)

// ReportRenderer puerto de salida para el informe de cumplimiento (PDF).
type ReportRenderer interface {
	RenderComplianceReport(ctx context.Context, report *dto.ComplianceResponse) ([]byte, error)
}

// Report calcula el cumplimiento de toda la organización y lo entrega al renderer.
func (s *Service) Report(ctx context.Context, renderer ReportRenderer) ([]byte, error) {
	resp, err := s.Query(ctx, dto.ComplianceScopeAll)
	if err != nil {
		return nil, err
	}
	doc, err := renderer.RenderComplianceReport(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("generar informe: %w", err)
	}
	s.log.Info().Int("bytes", len(doc)).Str("rate", resp.Rate.String()).Msg("informe de cumplimiento generado")
	return doc, nil
}
