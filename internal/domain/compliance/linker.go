package compliance

import "github.com/jhoicas/Certificaciones-api/internal/domain/entity"

// CertificateLinker resuelve qué certificados pertenecen a un empleado.
// Aísla el enlace heredado por nombre para poder sustituirlo por una clave foránea.
type CertificateLinker interface {
	CertificatesFor(emp *entity.Employee) []*entity.Certificate
}

// NameLinker enlaza por coincidencia exacta entre Certificate.StaffMemberName y Employee.Name.
// Dos empleados homónimos comparten certificados: limitación conocida del modelo heredado.
type NameLinker struct {
	byName map[string][]*entity.Certificate
}

// NewNameLinker indexa los certificados por nombre del titular.
func NewNameLinker(certs []*entity.Certificate) *NameLinker {
	l := &NameLinker{byName: make(map[string][]*entity.Certificate)}
	for _, c := range certs {
		if c == nil {
			continue
		}
		l.byName[c.StaffMemberName] = append(l.byName[c.StaffMemberName], c)
	}
	return l
}

// CertificatesFor implementa CertificateLinker.
func (l *NameLinker) CertificatesFor(emp *entity.Employee) []*entity.Certificate {
	if emp == nil {
		return nil
	}
	return l.byName[emp.Name]
}

// ResolveEmployeeByName devuelve el empleado cuyo nombre coincide exactamente con el titular.
func ResolveEmployeeByName(employees []*entity.Employee, staffMemberName string) *entity.Employee {
	for _, e := range employees {
		if e != nil && e.Name == staffMemberName {
			return e
		}
	}
	return nil
}
