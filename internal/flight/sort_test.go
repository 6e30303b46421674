package flight

import (
	"testing"
	"time"

	"duffeltravel/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func offerAt(id, amount, duration string, depart, arrive time.Time) OfferSummary {
	return OfferSummary{
		OfferID:       id,
		TotalAmount:   amount,
		TotalCurrency: "EUR",
		Slices: []SliceSummary{{
			DepartAt: depart,
			ArriveAt: arrive,
			Duration: ParseDuration(duration),
		}},
	}
}

func ids(offers []OfferSummary) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.OfferID)
	}
	return out
}

func TestApplySorting(t *testing.T) {
	day := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	offers := []OfferSummary{
		offerAt("a", "300.10", "PT5H", day.Add(9*time.Hour), day.Add(14*time.Hour)),
		offerAt("b", "99.99", "PT7H30M", day.Add(6*time.Hour), day.Add(13*time.Hour+30*time.Minute)),
		offerAt("c", "1000.00", "PT2H", day.Add(12*time.Hour), day.Add(14*time.Hour)),
		offerAt("d", "300.1", "unknown", day.Add(7*time.Hour), day.Add(20*time.Hour)),
	}

	svc := &Service{logger: logger.Nop()}

	tests := []struct {
		name string
		opt  SortOptions
		want []string
	}{
		{"no criteria keeps order", SortOptions{}, []string{"a", "b", "c", "d"}},
		{"price asc is decimal and stable", SortOptions{By: "price"}, []string{"b", "a", "d", "c"}},
		{"price desc", SortOptions{By: "price", Order: "desc"}, []string{"c", "a", "d", "b"}},
		{"duration puts unparsed last", SortOptions{By: "duration"}, []string{"c", "a", "b", "d"}},
		{"duration desc", SortOptions{By: "duration", Order: "desc"}, []string{"b", "a", "c", "d"}},
		{"departure", SortOptions{By: "departure_time"}, []string{"b", "d", "a", "c"}},
		{"arrival desc is stable", SortOptions{By: "arrival_time", Order: "desc"}, []string{"d", "a", "c", "b"}},
		{"unknown keeps order", SortOptions{By: "best_value"}, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.applySorting(offers, tt.opt)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(offers), "input must not be reordered")
}

func TestSortOptionsFromForm(t *testing.T) {
	opt := sortOptionsFromForm(map[string]string{FormSortBy: " Price ", FormSortOrder: "DESC"})
	assert.Equal(t, SortOptions{By: "price", Order: "desc"}, opt)
}
