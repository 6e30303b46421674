package flight

import (
	"math/big"
	"sort"
	"strings"
	"time"

	"duffeltravel/pkg/logger"
)

type SortOptions struct {
	By    string `json:"by"`    // price, duration, departure_time, arrival_time
	Order string `json:"order"` // asc, desc
}

// Form keys carrying the optional ordering.
const (
	FormSortBy    = "sort_by"
	FormSortOrder = "sort_order"
)

func sortOptionsFromForm(raw map[string]string) SortOptions {
	return SortOptions{
		By:    strings.ToLower(strings.TrimSpace(raw[FormSortBy])),
		Order: strings.ToLower(strings.TrimSpace(raw[FormSortOrder])),
	}
}

// applySorting returns a sorted copy. An empty or unknown criterion keeps the
// provider order.
func (s *Service) applySorting(offers []OfferSummary, opt SortOptions) []OfferSummary {
	if len(offers) <= 1 || opt.By == "" {
		return offers
	}

	sorted := make([]OfferSummary, len(offers))
	copy(sorted, offers)

	desc := opt.Order == "desc"

	switch opt.By {
	case "price":
		sortByPrice(sorted, desc)
	case "duration":
		sortByDuration(sorted, desc)
	case "departure_time":
		sortByTime(sorted, desc, func(o OfferSummary) time.Time { return o.Slices[0].DepartAt })
	case "arrival_time":
		sortByTime(sorted, desc, func(o OfferSummary) time.Time { return o.Slices[0].ArriveAt })
	default:
		s.logger.Warn("invalid sort criteria", logger.Field{Key: "sort_by", Value: opt.By})
		return offers
	}

	return sorted
}

// Stable sorts keep provider order between equal values.
func sortByPrice(offers []OfferSummary, desc bool) {
	amounts := make(map[string]*big.Rat, len(offers))
	for _, o := range offers {
		if _, ok := amounts[o.TotalAmount]; ok {
			continue
		}
		r, ok := new(big.Rat).SetString(o.TotalAmount)
		if !ok {
			r = new(big.Rat)
		}
		amounts[o.TotalAmount] = r
	}

	sort.SliceStable(offers, func(i, j int) bool {
		c := amounts[offers[i].TotalAmount].Cmp(amounts[offers[j].TotalAmount])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// sortByDuration orders by the outbound slice. Unparsed durations go last.
func sortByDuration(offers []OfferSummary, desc bool) {
	sort.SliceStable(offers, func(i, j int) bool {
		di, dj := offers[i].Slices[0].Duration, offers[j].Slices[0].Duration
		if di.Parsed != dj.Parsed {
			return di.Parsed
		}
		if desc {
			return di.TotalMinutes() > dj.TotalMinutes()
		}
		return di.TotalMinutes() < dj.TotalMinutes()
	})
}

func sortByTime(offers []OfferSummary, desc bool, at func(OfferSummary) time.Time) {
	sort.SliceStable(offers, func(i, j int) bool {
		if desc {
			return at(offers[i]).After(at(offers[j]))
		}
		return at(offers[i]).Before(at(offers[j]))
	})
}
