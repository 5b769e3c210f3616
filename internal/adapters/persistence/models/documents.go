package models

import (
	"time"

	"madhav-couriers/internal/core/domain"
)

// ShipmentDocument is the mongo representation of a shipment. The status history is
// embedded so an update and its history append are one document write.
type ShipmentDocument struct {
	ID             string            `bson:"_id"`
	TrackingNumber string            `bson:"tracking_number"`
	CustomerName   string            `bson:"customer_name"`
	CustomerPhone  string            `bson:"customer_phone"`
	Origin         string            `bson:"origin"`
	Destination    string            `bson:"destination"`
	CurrentCity    string            `bson:"current_city"`
	Status         string            `bson:"status"`
	Weight         float64           `bson:"weight"`
	Details        string            `bson:"shipment_details,omitempty"`
	StatusHistory  []HistoryDocument `bson:"status_history"`
	CreatedBy      string            `bson:"created_by,omitempty"`
	UpdatedBy      string            `bson:"updated_by,omitempty"`
	CreatedAt      time.Time         `bson:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at"`
}

// HistoryDocument is one embedded status history entry
type HistoryDocument struct {
	Status    string    `bson:"status"`
	Location  string    `bson:"location"`
	Note      string    `bson:"note"`
	Timestamp time.Time `bson:"timestamp"`
}

// ShipmentDocumentFromDomain maps a domain shipment to its document
func ShipmentDocumentFromDomain(s *domain.Shipment) *ShipmentDocument {
	doc := &ShipmentDocument{
		ID:             s.ID,
		TrackingNumber: s.TrackingNumber,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		Origin:         s.Origin,
		Destination:    s.Destination,
		CurrentCity:    s.CurrentCity,
		Status:         string(s.Status),
		Weight:         s.Weight,
		Details:        s.Details,
		StatusHistory:  make([]HistoryDocument, 0, len(s.StatusHistory)),
		CreatedBy:      s.CreatedBy,
		UpdatedBy:      s.UpdatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	for _, h := range s.StatusHistory {
		doc.StatusHistory = append(doc.StatusHistory, HistoryDocumentFromDomain(h))
	}
	return doc
}

// HistoryDocumentFromDomain maps a history entry to its embedded document
func HistoryDocumentFromDomain(h domain.HistoryEntry) HistoryDocument {
	return HistoryDocument{
		Status:    string(h.Status),
		Location:  h.Location,
		Note:      h.Note,
		Timestamp: h.Timestamp,
	}
}

// ToDomain maps the document back to a domain shipment
func (d *ShipmentDocument) ToDomain() *domain.Shipment {
	s := &domain.Shipment{
		ID:             d.ID,
		TrackingNumber: d.TrackingNumber,
		CustomerName:   d.CustomerName,
		CustomerPhone:  d.CustomerPhone,
		Origin:         d.Origin,
		Destination:    d.Destination,
		CurrentCity:    d.CurrentCity,
		Status:         domain.Status(d.Status),
		Weight:         d.Weight,
		Details:        d.Details,
		StatusHistory:  make([]domain.HistoryEntry, 0, len(d.StatusHistory)),
		CreatedBy:      d.CreatedBy,
		UpdatedBy:      d.UpdatedBy,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for _, h := range d.StatusHistory {
		s.StatusHistory = append(s.StatusHistory, domain.HistoryEntry{
			Status:    domain.Status(h.Status),
			Location:  h.Location,
			Note:      h.Note,
			Timestamp: h.Timestamp,
		})
	}
	return s
}

// AdminDocument is the mongo representation of an administrator
type AdminDocument struct {
	ID           string     `bson:"_id"`
	Username     string     `bson:"username"`
	Email        string     `bson:"email,omitempty"`
	Password     string     `bson:"password"`
	Role         string     `bson:"role"`
	IsActive     bool       `bson:"is_active"`
	FailedLogins int        `bson:"login_attempts"`
	LockedUntil  *time.Time `bson:"locked_until,omitempty"`
	LastLogin    *time.Time `bson:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

// AdminDocumentFromDomain maps a domain admin to its document
func AdminDocumentFromDomain(a *domain.Admin) *AdminDocument {
	return &AdminDocument{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Password:     a.Password,
		Role:         string(a.Role),
		IsActive:     a.IsActive,
		FailedLogins: a.FailedLogins,
		LockedUntil:  a.LockedUntil,
		LastLogin:    a.LastLogin,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ToDomain maps the document back to a domain admin
func (d *AdminDocument) ToDomain() *domain.Admin {
	return &domain.Admin{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		Password:     d.Password,
		Role:         domain.Role(d.Role),
		IsActive:     d.IsActive,
		FailedLogins: d.FailedLogins,
		LockedUntil:  d.LockedUntil,
		LastLogin:    d.LastLogin,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// PatchDocument returns the $set fields described by p
func PatchDocument(p *domain.ShipmentPatch) map[string]interface{} {
	set := map[string]interface{}{
		"updated_by": p.UpdatedBy,
		"updated_at": p.UpdatedAt,
	}
	if p.CustomerName != nil {
		set["customer_name"] = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		set["customer_phone"] = *p.CustomerPhone
	}
	if p.Origin != nil {
		set["origin"] = *p.Origin
	}
	if p.Destination != nil {
		set["destination"] = *p.Destination
	}
	if p.CurrentCity != nil {
		set["current_city"] = *p.CurrentCity
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Weight != nil {
		set["weight"] = *p.Weight
	}
	if p.Details != nil {
		set["shipment_details"] = *p.Details
	}
	return set
}
