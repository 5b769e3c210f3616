package models

import (
	"sync"
	"testing"
	"time"

	"madhav-couriers/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func sampleShipment() *domain.Shipment {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Shipment{
		ID:             "0b6f8a9e-1111-4c1c-9a35-111111111111",
		TrackingNumber: "MCL100000001",
		CustomerName:   "Asha",
		CustomerPhone:  "9876543210",
		Origin:         "Delhi",
		Destination:    "Mumbai",
		CurrentCity:    "Delhi",
		Status:         domain.StatusBooked,
		Weight:         2,
		StatusHistory: []domain.HistoryEntry{
			{Status: domain.StatusBooked, Location: "Delhi", Note: "Shipment created", Timestamp: now},
		},
		CreatedBy: "admin-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestShipmentRowRoundTrip(t *testing.T) {
	s := sampleShipment()
	row := ShipmentFromDomain(s)

	assert.Equal(t, "Booked", row.Status)
	assert.Len(t, row.History, 1)
	assert.Equal(t, s.ID, row.History[0].ShipmentID)
	assert.Equal(t, s, row.ToDomain())
}

func TestShipmentDocumentRoundTrip(t *testing.T) {
	s := sampleShipment()
	assert.Equal(t, s, ShipmentDocumentFromDomain(s).ToDomain())
}

func TestPatchColumns(t *testing.T) {
	city := "Jaipur"
	status := domain.StatusInTransit
	now := time.Now()
	cols := PatchColumns(&domain.ShipmentPatch{CurrentCity: &city, Status: &status, UpdatedBy: "a1", UpdatedAt: now})

	assert.Equal(t, map[string]interface{}{
		"current_city": "Jaipur",
		"status":       "In Transit",
		"updated_by":   "a1",
		"updated_at":   now,
	}, cols)
}

func TestAdminRoundTrip(t *testing.T) {
	until := time.Now().Add(time.Hour).UTC()
	a := &domain.Admin{ID: "a1", Username: "admin", Role: domain.RoleManager, IsActive: true, FailedLogins: 5, LockedUntil: &until}

	assert.Equal(t, a, AdminFromDomain(a).ToDomain())
	assert.Equal(t, a, AdminDocumentFromDomain(a).ToDomain())
}

func TestColumnsHoldValidatedText(t *testing.T) {
	history, err := schema.Parse(&ShipmentHistory{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	note := history.LookUpField("Note")
	require.NotNil(t, note)
	assert.GreaterOrEqual(t, note.Size, domain.MaxNoteLength)

	shipment, err := schema.Parse(&Shipment{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Equal(t, 500, shipment.LookUpField("Details").Size)
	assert.Equal(t, 12, shipment.LookUpField("TrackingNumber").Size)
}
