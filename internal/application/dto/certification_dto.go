package dto

import "time"

// RenewRequest renovación de un certificado: crea uno nuevo que sustituye al anterior.
// ExpirationDate vacío se calcula con la vigencia del tipo.
type RenewRequest struct {
	CertificateID  string
	IssueDate      string
	ExpirationDate string
}

// CertificateDTO certificado para salida JSON.
type CertificateDTO struct {
	ID                  string    `json:"id"`
	StaffMemberName     string    `json:"staff_member_name"`
	PositionID          string    `json:"position_id"`
	CertificateTypeName string    `json:"certificate_type_name"`
	IssueDate           time.Time `json:"issue_date"`
	ExpirationDate      time.Time `json:"expiration_date"`
	Status              string    `json:"status"`
	SupersedesID        string    `json:"supersedes_id,omitempty"`
}

// RefreshSummary resultado del recálculo de estados.
type RefreshSummary struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
}

// ReminderSummary resultado del envío de recordatorios.
type ReminderSummary struct {
	WindowDays int `json:"window_days"`
	Eligible   int `json:"eligible"`
	Superseded int `json:"superseded"`
}
