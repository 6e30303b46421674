package flight

import (
	"html/template"
	"strings"
)

const searchPageName = "search.html"

var searchPage = template.Must(template.New(searchPageName).Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Flight Search</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<div class="duffel-flight-search-form">
    <form method="post" action="/">
        <p>
            <label for="origin">Origin (IATA)</label>
            <input type="text" id="origin" name="origin" maxlength="3" value="{{.Origin}}" required>
        </p>
        <p>
            <label for="destination">Destination (IATA)</label>
            <input type="text" id="destination" name="destination" maxlength="3" value="{{.Destination}}" required>
        </p>
        <p>
            <label for="departure_date">Departure date</label>
            <input type="date" id="departure_date" name="departure_date" value="{{.DepartureDate}}" required>
        </p>
        <p>
            <label for="passengers_adults">Adults</label>
            <input type="number" id="passengers_adults" name="passengers_adults" min="1" max="9" value="{{.Adults}}">
        </p>
        <p>
            <label for="cabin_class">Cabin class</label>
            <select id="cabin_class" name="cabin_class">
            {{- range .CabinOptions}}
                <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
            {{- end}}
            </select>
        </p>
        <p><input type="submit" name="duffel_flight_search_submit" value="Search Flights"></p>
    </form>
</div>
{{- if .Errors}}
<div class="duffel-flight-search-errors">
    <ul>
    {{- range .Errors}}
        <li>{{.}}</li>
    {{- end}}
    </ul>
</div>
{{- end}}
{{- if .Message}}
<div class="duffel-flight-search-message"><p>{{.Message}}</p></div>
{{- end}}
{{- if .Offers}}
<div class="duffel-flight-results">
    <h3>Available Flights</h3>
    {{- range .Offers}}
    <div class="duffel-offer">
        <div class="duffel-offer-airline">
            {{- if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.Airline}}" height="24">{{end}}
            <strong>{{.Airline}}</strong>{{if .AirlineCode}} ({{.AirlineCode}}){{end}}
        </div>
        {{- range .Slices}}
        <div class="duffel-offer-slice">
            <h4>{{.Label}}</h4>
            <p>{{.Origin}} &rarr; {{.Destination}}</p>
            <p>Departs: {{.DepartAt}} &middot; Arrives: {{.ArriveAt}}</p>
            <p>Duration: {{.Duration}} &middot; Stops: {{.Stops}}</p>
        </div>
        {{- end}}
        <div class="duffel-offer-price"><strong>{{.Price}}</strong></div>
        <small>Offer ID: {{.OfferID}}</small>
        <button type="button" class="duffel-select-offer" data-offer-id="{{.OfferID}}">Select Flight</button>
    </div>
    {{- end}}
</div>
{{- end}}
</body>
</html>
`))

const displayTimeLayout = "2006-01-02 15:04"

type cabinOption struct {
	Value    string
	Label    string
	Selected bool
}

type searchPageView struct {
	Origin        string
	Destination   string
	DepartureDate string
	Adults        string
	CabinOptions  []cabinOption
	Errors        []string
	Message       string
	Offers        []offerView
}

type offerView struct {
	OfferID     string
	Airline     string
	AirlineCode string
	LogoURL     string
	Price       string
	Slices      []sliceView
}

type sliceView struct {
	Label       string
	Origin      string
	Destination string
	DepartAt    string
	ArriveAt    string
	Duration    string
	Stops       int
}

// newSearchPageView keeps the submitted values so the form is sticky.
func newSearchPageView(raw map[string]string) searchPageView {
	adults := raw[FormPassengersAdults]
	if adults == "" {
		adults = "1"
	}

	selected := CabinClass(strings.ToLower(strings.TrimSpace(raw[FormCabinClass])))
	if !selected.Valid() {
		selected = CabinEconomy
	}
	options := make([]cabinOption, 0, len(CabinClasses))
	for _, c := range CabinClasses {
		options = append(options, cabinOption{Value: string(c), Label: c.Label(), Selected: c == selected})
	}

	return searchPageView{
		Origin:        raw[FormOrigin],
		Destination:   raw[FormDestination],
		DepartureDate: raw[FormDepartureDate],
		Adults:        adults,
		CabinOptions:  options,
	}
}

func toOfferViews(offers []OfferSummary) []offerView {
	views := make([]offerView, 0, len(offers))
	for _, o := range offers {
		// The code is only shown in parentheses next to a real name.
		code := o.Airline.Code
		if o.Airline.Name == "" {
			code = ""
		}

		slices := make([]sliceView, 0, len(o.Slices))
		for i, s := range o.Slices {
			label := "Outbound"
			if i > 0 {
				label = "Return"
			}
			slices = append(slices, sliceView{
				Label:       label,
				Origin:      s.OriginCity + " (" + s.OriginCode + ")",
				Destination: s.DestinationCity + " (" + s.DestinationCode + ")",
				DepartAt:    s.DepartAt.Format(displayTimeLayout),
				ArriveAt:    s.ArriveAt.Format(displayTimeLayout),
				Duration:    s.Duration.String(),
				Stops:       s.StopCount,
			})
		}

		views = append(views, offerView{
			OfferID:     o.OfferID,
			Airline:     o.Airline.DisplayName(),
			AirlineCode: code,
			LogoURL:     o.Airline.LogoURL,
			Price:       o.TotalAmount + " " + o.TotalCurrency,
			Slices:      slices,
		})
	}
	return views
}
