package flight

import (
	"context"

	"duffeltravel/internal/settings"
)

// Credentials authenticate one provider call. They are read from the settings
// store for every search and never cached by the client.
type Credentials struct {
	APIKey      string
	Environment settings.Environment
}

// OfferSearcher is the flight-offer provider client.
type OfferSearcher interface {
	SearchOffers(ctx context.Context, creds Credentials, q SearchQuery) (*ProviderResponse, error)
}

// SettingsReader is the read side of the configuration store.
type SettingsReader interface {
	APIKey(ctx context.Context) (string, bool, error)
	APIEnvironment(ctx context.Context) (settings.Environment, error)
}

// ProviderResponse is the offer request result (schema version v2).
type ProviderResponse struct {
	RequestID string  `json:"id"`
	LiveMode  bool    `json:"live_mode"`
	Offers    []Offer `json:"offers"`
}

type Offer struct {
	ID            string   `json:"id"`
	TotalAmount   string   `json:"total_amount"`
	TotalCurrency string   `json:"total_currency"`
	BaseAmount    string   `json:"base_amount,omitempty"`
	TaxAmount     string   `json:"tax_amount,omitempty"`
	ExpiresAt     string   `json:"expires_at,omitempty"`
	Owner         *Carrier `json:"owner,omitempty"`
	Slices        []Slice  `json:"slices"`
}

type Slice struct {
	ID          string    `json:"id,omitempty"`
	Origin      *Place    `json:"origin"`
	Destination *Place    `json:"destination"`
	Duration    string    `json:"duration,omitempty"`
	Segments    []Segment `json:"segments"`
}

type Segment struct {
	ID                           string   `json:"id,omitempty"`
	Origin                       *Place   `json:"origin,omitempty"`
	Destination                  *Place   `json:"destination,omitempty"`
	DepartingAt                  string   `json:"departing_at"`
	ArrivingAt                   string   `json:"arriving_at"`
	Duration                     string   `json:"duration,omitempty"`
	OperatingCarrier             *Carrier `json:"operating_carrier,omitempty"`
	MarketingCarrier             *Carrier `json:"marketing_carrier,omitempty"`
	MarketingCarrierFlightNumber string   `json:"marketing_carrier_flight_number,omitempty"`
}

type Place struct {
	IATACode string `json:"iata_code"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	CityName string `json:"city_name,omitempty"`
	City     *City  `json:"city,omitempty"`
}

type City struct {
	Name     string `json:"name"`
	IATACode string `json:"iata_code,omitempty"`
}

type Carrier struct {
	Name          string `json:"name"`
	IATACode      string `json:"iata_code"`
	LogoLockupURL string `json:"logo_lockup_url,omitempty"`
	LogoSymbolURL string `json:"logo_symbol_url,omitempty"`
}
