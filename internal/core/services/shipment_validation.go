package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"madhav-couriers/internal/core/domain"
)

// Field limits for shipment input
const (
	maxNameLen    = 100
	maxPlaceLen   = 100
	maxCityLen    = 50
	maxDetailsLen = 500
	minWeight     = 0.1
)

var phonePattern = regexp.MustCompile(`^[0-9+\- ]{1,15}$`)

type fieldErrors []domain.FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, domain.FieldError{Field: field, Message: message})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &domain.ValidationError{Errors: f}
}

func (f *fieldErrors) text(field, value string, max int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		f.add(field, "is required")
	case n > max:
		f.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (f *fieldErrors) phone(value string) {
	if value == "" {
		f.add("customer_phone", "is required")
		return
	}
	if !phonePattern.MatchString(value) {
		f.add("customer_phone", "must be up to 15 digits, spaces, + or -")
	}
}

func (f *fieldErrors) note(field, value string) {
	if utf8.RuneCountInString(value) > domain.MaxNoteLength {
		f.add(field, fmt.Sprintf("must be at most %d characters", domain.MaxNoteLength))
	}
}

// validateCancelReason bounds the optional reason recorded on cancellation
func validateCancelReason(reason string) error {
	var errs fieldErrors
	errs.note("reason", reason)
	return errs.err()
}

func (f *fieldErrors) details(value string) {
	if utf8.RuneCountInString(value) > maxDetailsLen {
		f.add("shipment_details", fmt.Sprintf("must be at most %d characters", maxDetailsLen))
	}
}

func (f *fieldErrors) weight(value float64) {
	if value < minWeight {
		f.add("weight", fmt.Sprintf("must be at least %.1f", minWeight))
	}
}

func (f *fieldErrors) status(value domain.Status) {
	if !value.Valid() {
		names := make([]string, len(domain.AllStatuses))
		for i, s := range domain.AllStatuses {
			names[i] = string(s)
		}
		f.add("status", "must be one of: "+strings.Join(names, ", "))
	}
}

// trimPtr trims an optional string in place
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (in *CreateShipmentInput) normalize() {
	in.TrackingNumber = domain.NormalizeTrackingNumber(in.TrackingNumber)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)
	in.CurrentCity = strings.TrimSpace(in.CurrentCity)
	in.Details = strings.TrimSpace(in.Details)
	if in.Status == "" {
		in.Status = domain.StatusBooked
	}
	if in.CurrentCity == "" {
		in.CurrentCity = in.Origin
	}
}

// Validate reports every field problem of a creation input
func (in *CreateShipmentInput) Validate() error {
	var errs fieldErrors
	if in.TrackingNumber != "" && !domain.ValidTrackingNumber(in.TrackingNumber) {
		errs.add("tracking_number", "must start with MCL followed by 9 digits")
	}
	errs.text("customer_name", in.CustomerName, maxNameLen)
	errs.phone(in.CustomerPhone)
	errs.text("origin", in.Origin, maxPlaceLen)
	errs.text("destination", in.Destination, maxPlaceLen)
	errs.text("current_city", in.CurrentCity, maxCityLen)
	errs.details(in.Details)
	errs.weight(in.Weight)
	errs.status(in.Status)
	return errs.err()
}

func (in *UpdateShipmentInput) normalize() {
	in.CustomerName = trimPtr(in.CustomerName)
	in.CustomerPhone = trimPtr(in.CustomerPhone)
	in.Origin = trimPtr(in.Origin)
	in.Destination = trimPtr(in.Destination)
	in.CurrentCity = trimPtr(in.CurrentCity)
	in.Details = trimPtr(in.Details)
	in.Note = strings.TrimSpace(in.Note)
}

// Validate reports every problem with the fields present in an update
func (in *UpdateShipmentInput) Validate(current *domain.Shipment) error {
	var errs fieldErrors
	if in.TrackingNumber != nil && domain.NormalizeTrackingNumber(*in.TrackingNumber) != current.TrackingNumber {
		errs.add("tracking_number", "cannot be changed")
	}
	if in.CustomerName != nil {
		errs.text("customer_name", *in.CustomerName, maxNameLen)
	}
	if in.CustomerPhone != nil {
		errs.phone(*in.CustomerPhone)
	}
	if in.Origin != nil {
		errs.text("origin", *in.Origin, maxPlaceLen)
	}
	if in.Destination != nil {
		errs.text("destination", *in.Destination, maxPlaceLen)
	}
	if in.CurrentCity != nil {
		errs.text("current_city", *in.CurrentCity, maxCityLen)
	}
	if in.Details != nil {
		errs.details(*in.Details)
	}
	if in.Weight != nil {
		errs.weight(*in.Weight)
	}
	if in.Status != nil {
		errs.status(*in.Status)
	}
	errs.note("notes", in.Note)
	return errs.err()
}
