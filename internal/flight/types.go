package flight

import "time"

type PassengerType string

const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// CabinClasses lists the accepted cabin classes in display order.
var CabinClasses = []CabinClass{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}

func (c CabinClass) Valid() bool {
	for _, known := range CabinClasses {
		if c == known {
			return true
		}
	}
	return false
}

// Label is the human readable cabin name used by the search form.
func (c CabinClass) Label() string {
	switch c {
	case CabinPremiumEconomy:
		return "Premium Economy"
	case CabinBusiness:
		return "Business"
	case CabinFirst:
		return "First"
	default:
		return "Economy"
	}
}

// SliceQuery is one directional leg of the requested itinerary.
type SliceQuery struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type Passenger struct {
	Type PassengerType `json:"type"`
}

// SearchQuery is the validated, normalized form of a search submission.
// It is built per request and must not be shared across requests.
type SearchQuery struct {
	Slices     []SliceQuery `json:"slices"`
	Passengers []Passenger  `json:"passengers"`
	CabinClass CabinClass   `json:"cabin_class"`
}

// OfferSummary is the display model of one priced itinerary.
type OfferSummary struct {
	OfferID       string         `json:"offer_id"`
	TotalAmount   string         `json:"total_amount"`
	TotalCurrency string         `json:"total_currency"`
	Airline       Airline        `json:"airline"`
	Slices        []SliceSummary `json:"slices"`
}

type Airline struct {
	Name    string `json:"name,omitempty"`
	Code    string `json:"code,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

func (a Airline) Empty() bool {
	return a.Name == "" && a.Code == ""
}

// DisplayName falls back to the IATA code, then to "N/A".
func (a Airline) DisplayName() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.Code != "":
		return a.Code
	default:
		return "N/A"
	}
}

type SliceSummary struct {
	OriginCode      string    `json:"origin_code"`
	OriginCity      string    `json:"origin_city"`
	DestinationCode string    `json:"destination_code"`
	DestinationCity string    `json:"destination_city"`
	DepartAt        time.Time `json:"depart_at"`
	ArriveAt        time.Time `json:"arrive_at"`
	StopCount       int       `json:"stop_count"`
	AirlineName     string    `json:"airline_name,omitempty"`
	AirlineCode     string    `json:"airline_code,omitempty"`
	AirlineLogoURL  string    `json:"airline_logo_url,omitempty"`
	Duration        Duration  `json:"duration"`
}

// SearchResult is what one successful search hands to the rendering layer.
type SearchResult struct {
	SearchID string         `json:"search_id"`
	Query    SearchQuery    `json:"query"`
	Offers   []OfferSummary `json:"offers"`
}
