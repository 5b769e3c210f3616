package domain

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

// TrackingPrefix is the fixed prefix of every tracking number
const TrackingPrefix = "MCL"

const trackingDigits = 9

var trackingPattern = regexp.MustCompile(`^MCL\d{9}$`)

// NormalizeTrackingNumber trims and upper-cases user input
func NormalizeTrackingNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidTrackingNumber reports whether s matches MCL followed by 9 digits
func ValidTrackingNumber(s string) bool {
	return trackingPattern.MatchString(s)
}

// GenerateTrackingNumber returns a random tracking number
func GenerateTrackingNumber() (string, error) {
	max := big.NewInt(1_000_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	digits := n.String()
	return TrackingPrefix + strings.Repeat("0", trackingDigits-len(digits)) + digits, nil
}

// ShipmentSort is an ordering for shipment listings
type ShipmentSort struct {
	Field string
	Desc  bool
}

// DefaultSort lists the most recently updated shipments first
var DefaultSort = ShipmentSort{Field: "updated_at", Desc: true}

var sortFields = map[string]string{
	"updated_at":      "updated_at",
	"updatedAt":       "updated_at",
	"lastUpdated":     "updated_at",
	"created_at":      "created_at",
	"createdAt":       "created_at",
	"tracking_number": "tracking_number",
	"trackingNumber":  "tracking_number",
	"status":          "status",
	"customer_name":   "customer_name",
	"customerName":    "customer_name",
}

// ParseSort reads a sortBy value such as "-created_at" or "status".
// Unknown fields fall back to DefaultSort.
func ParseSort(raw string) ShipmentSort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort
	}
	desc := false
	switch {
	case strings.HasPrefix(raw, "-"):
		desc = true
		raw = raw[1:]
	case strings.HasSuffix(raw, ":desc"):
		desc = true
		raw = strings.TrimSuffix(raw, ":desc")
	case strings.HasSuffix(raw, ":asc"):
		raw = strings.TrimSuffix(raw, ":asc")
	}
	field, ok := sortFields[raw]
	if !ok {
		return DefaultSort
	}
	return ShipmentSort{Field: field, Desc: desc}
}
