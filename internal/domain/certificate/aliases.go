package certificate

import (
	"strings"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// TypeAliases nombres históricos del campo "tipo de certificado", en orden de prioridad.
// El campo canónico (Certificate.CertificateTypeName) se consulta siempre primero.
var TypeAliases = []string{
	"certificateTypeName",
	"certificateType",
	"certType",
	"type",
	"trainingType",
	"Type",
}

// TypeName resuelve el tipo de certificado consultando el campo canónico y luego los alias.
func TypeName(c *entity.Certificate) string {
	if c == nil {
		return ""
	}
	if name := strings.TrimSpace(c.CertificateTypeName); name != "" {
		return name
	}
	for _, alias := range TypeAliases {
		if v, ok := c.LegacyFields[alias]; ok {
			if name := strings.TrimSpace(v); name != "" {
				return name
			}
		}
	}
	return ""
}

// IsTypeAlias indica si key es uno de los nombres históricos del campo tipo.
func IsTypeAlias(key string) bool {
	for _, alias := range TypeAliases {
		if alias == key {
			return true
		}
	}
	return false
}
