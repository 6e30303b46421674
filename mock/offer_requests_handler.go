package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

type OfferRequest struct {
	Data struct {
		Slices []struct {
			Origin        string `json:"origin"`
			Destination   string `json:"destination"`
			DepartureDate string `json:"departure_date"`
		} `json:"slices"`
		Passengers []struct {
			Type string `json:"type"`
		} `json:"passengers"`
		CabinClass string `json:"cabin_class"`
	} `json:"data"`
}

type OfferRequestResponse struct {
	Data OfferRequestData `json:"data"`
}

type OfferRequestData struct {
	ID         string  `json:"id"`
	LiveMode   bool    `json:"live_mode"`
	CabinClass string  `json:"cabin_class"`
	Offers     []Offer `json:"offers"`
}

type Offer struct {
	ID            string  `json:"id"`
	TotalAmount   string  `json:"total_amount"`
	TotalCurrency string  `json:"total_currency"`
	Owner         Carrier `json:"owner"`
	Slices        []Slice `json:"slices"`
}

type Slice struct {
	Origin      Place     `json:"origin"`
	Destination Place     `json:"destination"`
	Duration    string    `json:"duration"`
	Segments    []Segment `json:"segments"`
}

type Segment struct {
	Origin                       Place   `json:"origin"`
	Destination                  Place   `json:"destination"`
	DepartingAt                  string  `json:"departing_at"`
	ArrivingAt                   string  `json:"arriving_at"`
	Duration                     string  `json:"duration"`
	OperatingCarrier             Carrier `json:"operating_carrier"`
	MarketingCarrier             Carrier `json:"marketing_carrier"`
	MarketingCarrierFlightNumber string  `json:"marketing_carrier_flight_number"`
}

type Place struct {
	IATACode string `json:"iata_code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	CityName string `json:"city_name,omitempty"`
}

type Carrier struct {
	Name          string `json:"name"`
	IATACode      string `json:"iata_code"`
	LogoLockupURL string `json:"logo_lockup_url"`
	LogoSymbolURL string `json:"logo_symbol_url"`
}

type apiError struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

var cities = map[string]string{
	"LHR": "London",
	"JFK": "New York",
	"CDG": "Paris",
	"AMS": "Amsterdam",
	"FRA": "Frankfurt",
	"MAD": "Madrid",
	"LIS": "Lisbon",
	"DXB": "Dubai",
	"SIN": "Singapore",
	"CGK": "Jakarta",
}

var carriers = []Carrier{
	{Name: "Duffel Airways", IATACode: "ZZ"},
	{Name: "British Airways", IATACode: "BA"},
	{Name: "KLM", IATACode: "KL"},
	{Name: "TAP Air Portugal", IATACode: "TP"},
}

// Routes to this destination return no offers.
const emptyDestination = "XXX"

const segmentTimeLayout = "2006-01-02T15:04:05"

func OfferRequestsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeErrors(w, http.StatusUnauthorized, apiError{
			Code:    "missing_authorization_header",
			Title:   "Missing authorization header",
			Message: "The 'Authorization' header needs to be set and contain a valid API token.",
			Type:    "authentication_error",
		})
		return
	}

	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Data.Slices) == 0 {
		writeErrors(w, http.StatusUnprocessableEntity, apiError{
			Code:    "validation_required",
			Title:   "Required field",
			Message: "Field 'slices' can't be blank",
			Type:    "validation_error",
		})
		return
	}

	key := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	resp := OfferRequestResponse{Data: OfferRequestData{
		ID:         fmt.Sprintf("orq_%d", time.Now().UnixNano()),
		LiveMode:   strings.HasPrefix(key, "duffel_live_"),
		CabinClass: req.Data.CabinClass,
	}}

	first := req.Data.Slices[0]
	if !strings.EqualFold(first.Destination, emptyDestination) {
		departure, err := time.Parse("2006-01-02", first.DepartureDate)
		if err != nil {
			writeErrors(w, http.StatusUnprocessableEntity, apiError{
				Code:    "invalid_date",
				Title:   "Invalid date",
				Message: "departure_date must be a date in the future",
				Type:    "validation_error",
			})
			return
		}

		passengers := len(req.Data.Passengers)
		if passengers == 0 {
			passengers = 1
		}
		resp.Data.Offers = generateOffers(first.Origin, first.Destination, departure, passengers)
	} else {
		resp.Data.Offers = []Offer{}
	}

	delay := 50 + rand.Intn(51) // 50 to 100ms
	time.Sleep(time.Duration(delay) * time.Millisecond)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// generateOffers returns one direct and one connecting offer per carrier.
func generateOffers(origin, destination string, day time.Time, passengers int) []Offer {
	hub := "AMS"
	if origin == hub || destination == hub {
		hub = "FRA"
	}

	offers := make([]Offer, 0, len(carriers)*2)
	for i, c := range carriers {
		depart := day.Add(time.Duration(6+i*3) * time.Hour)
		flightMinutes := 120 + rand.Intn(480)

		direct := []Segment{
			segment(origin, destination, depart, flightMinutes, c, i),
		}
		offers = append(offers, offer(c, direct, passengers, 150+rand.Intn(600)))

		firstLeg := 60 + rand.Intn(120)
		secondLeg := 60 + rand.Intn(300)
		layover := 45 + rand.Intn(120)
		connecting := []Segment{
			segment(origin, hub, depart, firstLeg, c, i),
			segment(hub, destination, depart.Add(time.Duration(firstLeg+layover)*time.Minute), secondLeg, c, i+10),
		}
		offers = append(offers, offer(c, connecting, passengers, 90+rand.Intn(400)))
	}
	return offers
}

func offer(c Carrier, segments []Segment, passengers, perPassenger int) Offer {
	first := segments[0]
	last := segments[len(segments)-1]

	departAt, _ := time.Parse(segmentTimeLayout, first.DepartingAt)
	arriveAt, _ := time.Parse(segmentTimeLayout, last.ArrivingAt)

	cents := rand.Intn(100)
	return Offer{
		ID:            fmt.Sprintf("off_%d", rand.Int63()),
		TotalAmount:   fmt.Sprintf("%d.%02d", perPassenger*passengers, cents),
		TotalCurrency: "GBP",
		Owner:         withLogos(c),
		Slices: []Slice{{
			Origin:      place(first.Origin.IATACode),
			Destination: place(last.Destination.IATACode),
			Duration:    isoDuration(arriveAt.Sub(departAt)),
			Segments:    segments,
		}},
	}
}

func segment(from, to string, depart time.Time, minutes int, c Carrier, n int) Segment {
	arrive := depart.Add(time.Duration(minutes) * time.Minute)
	return Segment{
		Origin:                       place(from),
		Destination:                  place(to),
		DepartingAt:                  depart.Format(segmentTimeLayout),
		ArrivingAt:                   arrive.Format(segmentTimeLayout),
		Duration:                     isoDuration(arrive.Sub(depart)),
		OperatingCarrier:             withLogos(c),
		MarketingCarrier:             withLogos(c),
		MarketingCarrierFlightNumber: fmt.Sprintf("%d", 100+n),
	}
}

func place(code string) Place {
	code = strings.ToUpper(code)
	return Place{
		IATACode: code,
		Name:     code + " Airport",
		Type:     "airport",
		CityName: cities[code],
	}
}

func withLogos(c Carrier) Carrier {
	c.LogoLockupURL = "https://assets.duffel.com/img/airlines/for-light-background/full-color-lockup/" + c.IATACode + ".svg"
	c.LogoSymbolURL = "https://assets.duffel.com/img/airlines/for-light-background/full-color-logo/" + c.IATACode + ".svg"
	return c
}

func isoDuration(d time.Duration) string {
	total := int(d.Minutes())
	return fmt.Sprintf("PT%dH%dM", total/60, total%60)
}

func writeErrors(w http.ResponseWriter, status int, errs ...apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"errors": errs,
		"meta":   map[string]any{"status": status},
	})
}
