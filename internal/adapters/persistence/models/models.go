package models

import (
	"time"

	"madhav-couriers/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Shipments
// ============================================================

// Shipment represents shipments table
type Shipment struct {
	ID             string            `gorm:"primaryKey;size:36"`
	TrackingNumber string            `gorm:"uniqueIndex;size:12;not null"`
	CustomerName   string            `gorm:"size:100;not null"`
	CustomerPhone  string            `gorm:"size:15;not null"`
	Origin         string            `gorm:"size:100;not null"`
	Destination    string            `gorm:"size:100;not null"`
	CurrentCity    string            `gorm:"size:50;not null;index"`
	Status         string            `gorm:"size:20;not null;index;default:'Booked'"`
	Weight         float64           `gorm:"not null"`
	Details        string            `gorm:"size:500"`
	CreatedBy      string            `gorm:"size:36"`
	UpdatedBy      string            `gorm:"size:36"`
	CreatedAt      time.Time         `gorm:"autoCreateTime:false;not null"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime:false;not null;index"`
	History        []ShipmentHistory `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (Shipment) TableName() string {
	return "shipments"
}

// ShipmentHistory represents shipment_histories table. Rows are append-only; the
// auto-increment id keeps insertion order.
type ShipmentHistory struct {
	ID         uint      `gorm:"primaryKey"`
	ShipmentID string    `gorm:"size:36;not null;index"`
	Status     string    `gorm:"size:20;not null"`
	Location   string    `gorm:"size:50"`
	Note       string    `gorm:"size:500"`
	Timestamp  time.Time `gorm:"not null"`
}

func (ShipmentHistory) TableName() string {
	return "shipment_histories"
}

// ShipmentFromDomain maps a domain shipment to its row
func ShipmentFromDomain(s *domain.Shipment) *Shipment {
	m := &Shipment{
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
		CreatedBy:      s.CreatedBy,
		UpdatedBy:      s.UpdatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	for _, h := range s.StatusHistory {
		m.History = append(m.History, *HistoryFromDomain(s.ID, h))
	}
	return m
}

// HistoryFromDomain maps a history entry to its row
func HistoryFromDomain(shipmentID string, h domain.HistoryEntry) *ShipmentHistory {
	return &ShipmentHistory{
		ShipmentID: shipmentID,
		Status:     string(h.Status),
		Location:   h.Location,
		Note:       h.Note,
		Timestamp:  h.Timestamp,
	}
}

// ToDomain maps the row back to a domain shipment
func (m *Shipment) ToDomain() *domain.Shipment {
	s := &domain.Shipment{
		ID:             m.ID,
		TrackingNumber: m.TrackingNumber,
		CustomerName:   m.CustomerName,
		CustomerPhone:  m.CustomerPhone,
		Origin:         m.Origin,
		Destination:    m.Destination,
		CurrentCity:    m.CurrentCity,
		Status:         domain.Status(m.Status),
		Weight:         m.Weight,
		Details:        m.Details,
		CreatedBy:      m.CreatedBy,
		UpdatedBy:      m.UpdatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		StatusHistory:  make([]domain.HistoryEntry, 0, len(m.History)),
	}
	for _, h := range m.History {
		s.StatusHistory = append(s.StatusHistory, domain.HistoryEntry{
			Status:    domain.Status(h.Status),
			Location:  h.Location,
			Note:      h.Note,
			Timestamp: h.Timestamp,
		})
	}
	return s
}

// PatchColumns returns the column updates described by p
func PatchColumns(p *domain.ShipmentPatch) map[string]interface{} {
	cols := map[string]interface{}{
		"updated_by": p.UpdatedBy,
		"updated_at": p.UpdatedAt,
	}
	if p.CustomerName != nil {
		cols["customer_name"] = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		cols["customer_phone"] = *p.CustomerPhone
	}
	if p.Origin != nil {
		cols["origin"] = *p.Origin
	}
	if p.Destination != nil {
		cols["destination"] = *p.Destination
	}
	if p.CurrentCity != nil {
		cols["current_city"] = *p.CurrentCity
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Weight != nil {
		cols["weight"] = *p.Weight
	}
	if p.Details != nil {
		cols["details"] = *p.Details
	}
	return cols
}

// ============================================================
// Administrators
// ============================================================

// Admin represents admins table
type Admin struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Username     string     `gorm:"uniqueIndex;size:50;not null"`
	Email        string     `gorm:"size:100"`
	Password     string     `gorm:"size:255;not null"`
	Role         string     `gorm:"size:20;not null;default:'admin'"`
	IsActive     bool       `gorm:"not null;default:true"`
	FailedLogins int        `gorm:"not null;default:0"`
	LockedUntil  *time.Time `gorm:"index"`
	LastLogin    *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Admin) TableName() string {
	return "admins"
}

// AdminFromDomain maps a domain admin to its row
func AdminFromDomain(a *domain.Admin) *Admin {
	return &Admin{
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

// ToDomain maps the row back to a domain admin
func (m *Admin) ToDomain() *domain.Admin {
	return &domain.Admin{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		Password:     m.Password,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		FailedLogins: m.FailedLogins,
		LockedUntil:  m.LockedUntil,
		LastLogin:    m.LastLogin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Shipment{},
		&ShipmentHistory{},
		&Admin{},
	)
}
