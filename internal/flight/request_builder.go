package flight

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Form field names posted by the search form.
const (
	FormOrigin           = "origin"
	FormDestination      = "destination"
	FormDepartureDate    = "departure_date"
	FormPassengersAdults = "passengers_adults"
	FormCabinClass       = "cabin_class"
	FormSubmit           = "duffel_flight_search_submit"
)

const dateLayout = "2006-01-02"

// MaxAdults is the largest party one offer request may carry.
const MaxAdults = 9

var (
	iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// BuildQuery validates a raw form submission and normalizes it into a SearchQuery.
// All field problems are collected into one *ValidationError.
//
// Only one-way searches are supported: the query always holds exactly one slice.
// An unparsable or non-positive adult count falls back to one adult, a count
// above MaxAdults is clamped to MaxAdults, and an unknown cabin class falls
// back to economy.
func BuildQuery(raw map[string]string) (SearchQuery, error) {
	verr := &ValidationError{}

	origin := validateIATA(raw[FormOrigin], FieldOrigin, "Origin", verr)
	destination := validateIATA(raw[FormDestination], FieldDestination, "Destination", verr)
	departureDate := validateDate(raw[FormDepartureDate], verr)

	adults := parseAdults(raw[FormPassengersAdults])
	cabin := parseCabinClass(raw[FormCabinClass])

	if len(verr.Fields) > 0 {
		return SearchQuery{}, verr
	}

	passengers := make([]Passenger, adults)
	for i := range passengers {
		passengers[i] = Passenger{Type: PassengerAdult}
	}

	return SearchQuery{
		Slices: []SliceQuery{{
			Origin:        origin,
			Destination:   destination,
			DepartureDate: departureDate,
		}},
		Passengers: passengers,
		CabinClass: cabin,
	}, nil
}

func validateIATA(value, field, label string, verr *ValidationError) string {
	code := strings.ToUpper(strings.TrimSpace(value))
	if code == "" {
		verr.add(field, label+" is required.")
		return ""
	}
	if !iataPattern.MatchString(code) {
		verr.add(field, label+" must be a 3-letter IATA code.")
		return ""
	}
	return code
}

func validateDate(value string, verr *ValidationError) string {
	date := strings.TrimSpace(value)
	if date == "" {
		verr.add(FieldDepartureDate, "Departure date is required.")
		return ""
	}
	if !datePattern.MatchString(date) {
		verr.add(FieldDepartureDate, "Departure date must be in YYYY-MM-DD format.")
		return ""
	}
	// time.Parse rejects out-of-range days such as 2024-02-30.
	if _, err := time.Parse(dateLayout, date); err != nil {
		verr.add(FieldDepartureDate, "Departure date is not a valid calendar date.")
		return ""
	}
	return date
}

func parseAdults(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 1
	}
	if n > MaxAdults {
		return MaxAdults
	}
	return n
}

func parseCabinClass(value string) CabinClass {
	cabin := CabinClass(strings.ToLower(strings.TrimSpace(value)))
	if !cabin.Valid() {
		return CabinEconomy
	}
	return cabin
}
