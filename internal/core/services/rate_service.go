package services

import (
	"math"
	"strings"
)

// Service levels
const (
	ServiceStandard = "standard"
	ServiceExpress  = "express"
)

// Zones
const (
	ZoneLocal    = "local"
	ZoneNational = "national"
)

const (
	expressMultiplier = 1.5
	weightStep        = 0.5
)

// ZoneRate is the tariff of one zone in rupees
type ZoneRate struct {
	Zone        string  `json:"zone"`
	Description string  `json:"description"`
	BaseCharge  float64 `json:"base_charge"`
	PerKg       float64 `json:"per_kg"`
}

// RateCard is the public tariff
type RateCard struct {
	Currency          string     `json:"currency"`
	Zones             []ZoneRate `json:"zones"`
	ExpressMultiplier float64    `json:"express_multiplier"`
	WeightStepKg      float64    `json:"weight_step_kg"`
}

// QuoteInput represents a price quote request
type QuoteInput struct {
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Weight       float64 `json:"weight"`
	ServiceLevel string  `json:"service_level"`
}

// Quote is a computed price
type Quote struct {
	Zone             string  `json:"zone"`
	ServiceLevel     string  `json:"service_level"`
	ChargeableWeight float64 `json:"chargeable_weight"`
	BaseCharge       float64 `json:"base_charge"`
	WeightCharge     float64 `json:"weight_charge"`
	Total            float64 `json:"total"`
	Currency         string  `json:"currency"`
}

// RateService prices shipments from a fixed rate card
type RateService struct {
	card RateCard
}

// NewRateService creates a rate service with the default rate card
func NewRateService() *RateService {
	return &RateService{card: RateCard{
		Currency: "INR",
		Zones: []ZoneRate{
			{Zone: ZoneLocal, Description: "Pickup and delivery in the same city", BaseCharge: 50, PerKg: 20},
			{Zone: ZoneNational, Description: "Between cities anywhere in India", BaseCharge: 100, PerKg: 40},
		},
		ExpressMultiplier: expressMultiplier,
		WeightStepKg:      weightStep,
	}}
}

// Card returns the public rate card
func (s *RateService) Card() RateCard {
	card := s.card
	card.Zones = append([]ZoneRate(nil), s.card.Zones...)
	return card
}

// Quote prices one parcel
func (s *RateService) Quote(input QuoteInput) (*Quote, error) {
	origin := strings.TrimSpace(input.Origin)
	destination := strings.TrimSpace(input.Destination)
	level := strings.ToLower(strings.TrimSpace(input.ServiceLevel))
	if level == "" {
		level = ServiceStandard
	}

	var errs fieldErrors
	errs.text("origin", origin, maxPlaceLen)
	errs.text("destination", destination, maxPlaceLen)
	errs.weight(input.Weight)
	if level != ServiceStandard && level != ServiceExpress {
		errs.add("service_level", "must be standard or express")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	zone := ZoneNational
	if strings.EqualFold(origin, destination) {
		zone = ZoneLocal
	}
	var rate ZoneRate
	for _, z := range s.card.Zones {
		if z.Zone == zone {
			rate = z
		}
	}

	chargeable := math.Ceil(input.Weight/weightStep) * weightStep
	weightCharge := chargeable * rate.PerKg
	total := rate.BaseCharge + weightCharge
	if level == ServiceExpress {
		total *= expressMultiplier
	}

	return &Quote{
		Zone:             zone,
		ServiceLevel:     level,
		ChargeableWeight: chargeable,
		BaseCharge:       rate.BaseCharge,
		WeightCharge:     weightCharge,
		Total:            math.Round(total*100) / 100,
		Currency:         s.card.Currency,
	}, nil
}
