package domain

import "time"

// Role represents an administrator role
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
	RoleManager    Role = "manager"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleManager:
		return true
	}
	return false
}

// CanWrite reports whether the role may mutate shipments
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Status represents a shipment status. Values keep the spelling used on the wire.
type Status string

const (
	StatusBooked         Status = "Booked"
	StatusInTransit      Status = "In Transit"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// AllStatuses lists statuses in their usual order of progression
var AllStatuses = []Status{
	StatusBooked,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Pending reports whether the shipment still waits on a courier action
func (s Status) Pending() bool {
	return s == StatusBooked || s == StatusOutForDelivery
}

// MaxNoteLength bounds a history note in characters
const MaxNoteLength = 500

// HistoryEntry is one record of the status history log
type HistoryEntry struct {
	Status    Status    `json:"status"`
	Location  string    `json:"location"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// Shipment is the aggregate root of the tracking service
type Shipment struct {
	ID             string         `json:"id"`
	TrackingNumber string         `json:"tracking_number"`
	CustomerName   string         `json:"customer_name"`
	CustomerPhone  string         `json:"customer_phone"`
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	CurrentCity    string         `json:"current_city"`
	Status         Status         `json:"status"`
	Weight         float64        `json:"weight"`
	Details        string         `json:"shipment_details,omitempty"`
	StatusHistory  []HistoryEntry `json:"status_history"`
	CreatedBy      string         `json:"created_by,omitempty"`
	UpdatedBy      string         `json:"updated_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Clone returns a deep copy of the shipment
func (s *Shipment) Clone() *Shipment {
	if s == nil {
		return nil
	}
	c := *s
	c.StatusHistory = append([]HistoryEntry(nil), s.StatusHistory...)
	return &c
}

// PublicShipment is the read-only view served to unauthenticated callers.
// It carries no internal id, phone number or audit fields.
type PublicShipment struct {
	TrackingNumber string         `json:"tracking_number"`
	CustomerName   string         `json:"customer_name"`
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	CurrentCity    string         `json:"current_city"`
	Status         Status         `json:"status"`
	Weight         float64        `json:"weight"`
	Details        string         `json:"shipment_details,omitempty"`
	StatusHistory  []HistoryEntry `json:"status_history"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Public converts the shipment to its public view
func (s *Shipment) Public() *PublicShipment {
	return &PublicShipment{
		TrackingNumber: s.TrackingNumber,
		CustomerName:   s.CustomerName,
		Origin:         s.Origin,
		Destination:    s.Destination,
		CurrentCity:    s.CurrentCity,
		Status:         s.Status,
		Weight:         s.Weight,
		Details:        s.Details,
		StatusHistory:  append([]HistoryEntry(nil), s.StatusHistory...),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ShipmentPatch holds the fields an update may change. Nil means unchanged.
type ShipmentPatch struct {
	CustomerName  *string
	CustomerPhone *string
	Origin        *string
	Destination   *string
	CurrentCity   *string
	Status        *Status
	Weight        *float64
	Details       *string
	UpdatedBy     string
	UpdatedAt     time.Time
}

// Apply merges the patch into s
func (p *ShipmentPatch) Apply(s *Shipment) {
	if p.CustomerName != nil {
		s.CustomerName = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		s.CustomerPhone = *p.CustomerPhone
	}
	if p.Origin != nil {
		s.Origin = *p.Origin
	}
	if p.Destination != nil {
		s.Destination = *p.Destination
	}
	if p.CurrentCity != nil {
		s.CurrentCity = *p.CurrentCity
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Weight != nil {
		s.Weight = *p.Weight
	}
	if p.Details != nil {
		s.Details = *p.Details
	}
	s.UpdatedBy = p.UpdatedBy
	s.UpdatedAt = p.UpdatedAt
}

// ShipmentFilter narrows a shipment listing
type ShipmentFilter struct {
	Search      string
	Status      Status
	CurrentCity string
	Origin      string
	Destination string
	Sort        ShipmentSort
}

// Event actions
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCancelled = "cancelled"
	ActionDeleted   = "deleted"
)

// ShipmentEvent describes a change emitted by the lifecycle manager
type ShipmentEvent struct {
	Action   string    `json:"action"`
	Shipment *Shipment `json:"shipment"`
}

// Stats is the dashboard summary derived from one snapshot
type Stats struct {
	Total          int            `json:"total"`
	InTransit      int            `json:"inTransit"`
	DeliveredToday int            `json:"deliveredToday"`
	Pending        int            `json:"pending"`
	ByStatus       map[Status]int `json:"byStatus"`
}

// Admin is an administrative principal as stored
type Admin struct {
	ID           string
	Username     string
	Email        string
	Password     string // bcrypt hash
	Role         Role
	IsActive     bool
	FailedLogins int
	LockedUntil  *time.Time
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLocked reports whether the lockout is still in force at now
func (a *Admin) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// Principal returns the authenticated identity for a
func (a *Admin) Principal() *Principal {
	return &Principal{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		LastLogin: a.LastLogin,
	}
}

// Principal is an authenticated administrative identity
type Principal struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Role      Role       `json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
