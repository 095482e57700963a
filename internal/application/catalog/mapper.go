package catalog

import (
	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

func PositionToDTO(p *entity.Position) dto.PositionDTO {
	return dto.PositionDTO{ID: p.ID, Title: p.Title, Department: p.Department, Active: p.Active}
}

func CertificateTypeToDTO(t *entity.CertificateType) dto.CertificateTypeDTO {
	return dto.CertificateTypeDTO{ID: t.ID, Name: t.Name, ValidityMonths: t.Validity(), Active: t.Active}
}

func RequirementToDTO(r *entity.PositionRequirement) dto.RequirementDTO {
	return dto.RequirementDTO{
		ID:                  r.ID,
		PositionID:          r.PositionID,
		CertificateTypeName: r.CertificateTypeName,
		ValidityMonths:      r.ValidityPeriodMonths,
		IsRequired:          r.IsRequired,
		Active:              r.Active,
	}
}
