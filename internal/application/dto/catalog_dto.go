package dto

// SeedFile catálogo inicial en YAML: cargos con sus requisitos y tipos de certificado.
type SeedFile struct {
	CertificateTypes []SeedCertificateType `yaml:"certificate_types"`
	Positions        []SeedPosition        `yaml:"positions"`
}

// SeedCertificateType tipo de certificado del catálogo.
type SeedCertificateType struct {
	Name           string `yaml:"name"`
	ValidityMonths int    `yaml:"validity_months"`
}

// SeedPosition cargo con sus requisitos.
type SeedPosition struct {
	Title        string            `yaml:"title"`
	Department   string            `yaml:"department"`
	Requirements []SeedRequirement `yaml:"requirements"`
}

// SeedRequirement requisito de un cargo. Required nil equivale a obligatorio.
type SeedRequirement struct {
	Type           string `yaml:"type"`
	ValidityMonths int    `yaml:"validity_months"`
	Required       *bool  `yaml:"required"`
}

// SeedResult resumen de la carga del catálogo.
type SeedResult struct {
	NewPositions         int           `json:"newPositions"`
	NewCertTypes         int           `json:"newCertTypes"`
	NewRequirements      int           `json:"newRequirements"`
	ExistingRequirements int           `json:"existingRequirements"`
	Errors               []RecordError `json:"errors"`
	Warnings             []string      `json:"warnings,omitempty"`
}

// PositionDTO cargo para salida JSON.
type PositionDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Active     bool   `json:"active"`
}

// CertificateTypeDTO tipo de certificado para salida JSON.
type CertificateTypeDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ValidityMonths int    `json:"validity_months"`
	Active         bool   `json:"active"`
}

// RequirementDTO requisito de un cargo para salida JSON.
type RequirementDTO struct {
	ID                  string `json:"id"`
	PositionID          string `json:"position_id"`
	CertificateTypeName string `json:"certificate_type_name"`
	ValidityMonths      int    `json:"validity_months"`
	IsRequired          bool   `json:"is_required"`
	Active              bool   `json:"active"`
}
