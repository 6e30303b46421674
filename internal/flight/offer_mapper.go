package flight

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"duffeltravel/pkg/logger"
)

// Providers send local wall-clock times without an offset.
const segmentTimeLayout = "2006-01-02T15:04:05"

var (
	amountPattern   = regexp.MustCompile(`^\d+(\.\d+)?$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

const timeoutMessage = "flight search timed out"

// OfferMapper turns a provider response into display-ready offers.
type OfferMapper struct {
	logger logger.Logger
}

func NewOfferMapper(logger logger.Logger) *OfferMapper {
	return &OfferMapper{logger: logger}
}

// Map converts the outcome of one provider call. A provider failure becomes a
// ProviderError and an empty result becomes NoResults; both are returned as
// *SearchError. Malformed offers are logged and skipped, never fatal.
func (m *OfferMapper) Map(resp *ProviderResponse, callErr error) ([]OfferSummary, error) {
	if callErr != nil {
		return nil, providerSearchError(callErr)
	}
	if resp == nil {
		return nil, &SearchError{Kind: KindProviderError, Message: "An unexpected error occurred while searching for flights."}
	}

	offers := make([]OfferSummary, 0, len(resp.Offers))
	for i, offer := range resp.Offers {
		summary, err := mapOffer(offer)
		if err != nil {
			m.logger.Warn("skipping malformed offer",
				logger.Field{Key: "offer_id", Value: offer.ID},
				logger.Field{Key: "offer_index", Value: i},
				logger.Field{Key: "reason", Value: err.Error()},
			)
			continue
		}
		offers = append(offers, summary)
	}

	if len(offers) == 0 {
		return nil, &SearchError{Kind: KindNoResults, Message: "No flights found for your criteria."}
	}
	return offers, nil
}

func providerSearchError(err error) *SearchError {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		if upErr.Timeout {
			return &SearchError{Kind: KindProviderError, Message: timeoutMessage}
		}
		return &SearchError{Kind: KindProviderError, Message: upErr.Message, Details: upErr.Details}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &SearchError{Kind: KindProviderError, Message: timeoutMessage}
	}
	return &SearchError{Kind: KindProviderError, Message: err.Error()}
}

func mapOffer(offer Offer) (OfferSummary, error) {
	if offer.ID == "" {
		return OfferSummary{}, errors.New("missing offer id")
	}
	if !amountPattern.MatchString(offer.TotalAmount) {
		return OfferSummary{}, fmt.Errorf("invalid total_amount %q", offer.TotalAmount)
	}
	if !currencyPattern.MatchString(offer.TotalCurrency) {
		return OfferSummary{}, fmt.Errorf("invalid total_currency %q", offer.TotalCurrency)
	}
	if len(offer.Slices) == 0 {
		return OfferSummary{}, errors.New("offer has no slices")
	}

	airline := offerAirline(offer)

	slices := make([]SliceSummary, 0, len(offer.Slices))
	for i, s := range offer.Slices {
		summary, err := mapSlice(s, airline)
		if err != nil {
			return OfferSummary{}, fmt.Errorf("slice %d: %w", i, err)
		}
		slices = append(slices, summary)
	}

	return OfferSummary{
		OfferID:       offer.ID,
		TotalAmount:   offer.TotalAmount,
		TotalCurrency: offer.TotalCurrency,
		Airline:       airline,
		Slices:        slices,
	}, nil
}

// offerAirline reads the carrier of the first segment of the first slice only.
func offerAirline(offer Offer) Airline {
	if len(offer.Slices) == 0 || len(offer.Slices[0].Segments) == 0 {
		return Airline{}
	}

	seg := offer.Slices[0].Segments[0]
	carrier := seg.OperatingCarrier
	if carrier == nil {
		carrier = seg.MarketingCarrier
	}
	if carrier == nil {
		return Airline{}
	}

	logo := carrier.LogoLockupURL
	if logo == "" {
		logo = carrier.LogoSymbolURL
	}
	return Airline{
		Name:    carrier.Name,
		Code:    carrier.IATACode,
		LogoURL: logo,
	}
}

func mapSlice(s Slice, airline Airline) (SliceSummary, error) {
	if len(s.Segments) == 0 {
		return SliceSummary{}, errors.New("slice has no segments")
	}
	if s.Origin == nil || s.Origin.IATACode == "" {
		return SliceSummary{}, errors.New("slice origin missing")
	}
	if s.Destination == nil || s.Destination.IATACode == "" {
		return SliceSummary{}, errors.New("slice destination missing")
	}

	first := s.Segments[0]
	last := s.Segments[len(s.Segments)-1]

	departAt, err := parseSegmentTime(first.DepartingAt)
	if err != nil {
		return SliceSummary{}, fmt.Errorf("departing_at: %w", err)
	}
	arriveAt, err := parseSegmentTime(last.ArrivingAt)
	if err != nil {
		return SliceSummary{}, fmt.Errorf("arriving_at: %w", err)
	}

	return SliceSummary{
		OriginCode:      s.Origin.IATACode,
		OriginCity:      cityName(s.Origin),
		DestinationCode: s.Destination.IATACode,
		DestinationCity: cityName(s.Destination),
		DepartAt:        departAt,
		ArriveAt:        arriveAt,
		StopCount:       len(s.Segments) - 1,
		AirlineName:     airline.Name,
		AirlineCode:     airline.Code,
		AirlineLogoURL:  airline.LogoURL,
		Duration:        ParseDuration(s.Duration),
	}, nil
}

// cityName falls back to the IATA code when the provider omits the city.
func cityName(p *Place) string {
	if p.CityName != "" {
		return p.CityName
	}
	if p.City != nil && p.City.Name != "" {
		return p.City.Name
	}
	return p.IATACode
}

func parseSegmentTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(segmentTimeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
