package flight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"duffeltravel/internal/settings"
	"duffeltravel/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(searcher *MockOfferSearcher, reader *MockSettingsReader) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewFlightHandler(newTestService(searcher, reader), logger.Nop()).RegisterRoutes(r)
	return r
}

func configured(reader *MockSettingsReader) {
	reader.On("APIKey", mock.Anything).Return("duffel_test_abc", true, nil)
	reader.On("APIEnvironment", mock.Anything).Return(settings.EnvironmentTest, nil)
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestSearchFlightsHandler_JSON(t *testing.T) {
	searcher := new(MockOfferSearcher)
	reader := new(MockSettingsReader)
	configured(reader)
	searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.MatchedBy(func(q SearchQuery) bool {
		return len(q.Passengers) == 3
	})).Return(&ProviderResponse{Offers: []Offer{directOffer("off_1")}}, nil)

	r := newTestRouter(searcher, reader)
	w := postJSON(r, "/v1/flights/search", map[string]any{
		"origin":            "LHR",
		"destination":       "JFK",
		"departure_date":    "2024-12-25",
		"passengers_adults": 3,
		"cabin_class":       "economy",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "search-1", body.SearchID)
	require.Len(t, body.Offers, 1)
	assert.Equal(t, "412.30", body.Offers[0].TotalAmount)
	assert.Equal(t, "8 hours 0 minutes", body.Offers[0].Slices[0].Duration.String())
}

func TestSearchFlightsHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(searcher *MockOfferSearcher, reader *MockSettingsReader)
		body       map[string]any
		wantStatus int
		wantCode   ErrorCode
	}{
		{
			name:       "validation",
			setup:      func(*MockOfferSearcher, *MockSettingsReader) {},
			body:       map[string]any{"origin": "L", "destination": "JFK", "departure_date": "2024-12-25"},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
		},
		{
			name: "not configured",
			setup: func(_ *MockOfferSearcher, reader *MockSettingsReader) {
				reader.On("APIKey", mock.Anything).Return("", false, nil)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeConfiguration,
		},
		{
			name: "provider failure",
			setup: func(searcher *MockOfferSearcher, reader *MockSettingsReader) {
				configured(reader)
				searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, &UpstreamError{StatusCode: 401, Message: "The provided token is invalid"})
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrorCodeProvider,
		},
		{
			name: "no results",
			setup: func(searcher *MockOfferSearcher, reader *MockSettingsReader) {
				configured(reader)
				searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
					Return(&ProviderResponse{}, nil)
			},
			wantStatus: http.StatusOK,
			wantCode:   ErrorCodeNoResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockOfferSearcher)
			reader := new(MockSettingsReader)
			tt.setup(searcher, reader)

			body := tt.body
			if body == nil {
				body = map[string]any{"origin": "LHR", "destination": "JFK", "departure_date": "2024-12-25"}
			}

			w := postJSON(newTestRouter(searcher, reader), "/v1/flights/search", body)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.wantCode), resp["code"])
		})
	}
}

func TestSearchFlightsHandler_ValidationListsFields(t *testing.T) {
	r := newTestRouter(new(MockOfferSearcher), new(MockSettingsReader))
	w := postJSON(r, "/v1/flights/search", map[string]any{"origin": "", "destination": "", "departure_date": ""})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields []FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, 3)
}

func TestSearchFlightsHandler_InvalidJSON(t *testing.T) {
	r := newTestRouter(new(MockOfferSearcher), new(MockSettingsReader))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/flights/search", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchFormHandler_RendersEmptyForm(t *testing.T) {
	r := newTestRouter(new(MockOfferSearcher), new(MockSettingsReader))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, `name="duffel_flight_search_submit"`)
	assert.Contains(t, html, `<option value="economy" selected>Economy</option>`)
	assert.Contains(t, html, `<option value="premium_economy">Premium Economy</option>`)
}

func TestSearchFormSubmitHandler_WithoutSubmitFlag(t *testing.T) {
	searcher := new(MockOfferSearcher)
	reader := new(MockSettingsReader)
	r := newTestRouter(searcher, reader)

	w := postForm(r, "/", url.Values{"origin": {"LHR"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="LHR"`)
	reader.AssertNotCalled(t, "APIKey", mock.Anything)
}

func TestSearchFormSubmitHandler_RendersResults(t *testing.T) {
	searcher := new(MockOfferSearcher)
	reader := new(MockSettingsReader)
	configured(reader)

	roundTrip := directOffer("off_rt")
	roundTrip.Slices = append(roundTrip.Slices, Slice{
		Origin:      &Place{IATACode: "JFK", CityName: "New York"},
		Destination: &Place{IATACode: "LHR", CityName: "London"},
		Duration:    "PT7H5M",
		Segments: []Segment{
			segment("JFK", "LHR", "2025-01-02T18:00:00", "2025-01-03T06:05:00", nil),
		},
	})
	searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
		Return(&ProviderResponse{Offers: []Offer{roundTrip}}, nil)

	r := newTestRouter(searcher, reader)
	w := postForm(r, "/", url.Values{
		FormOrigin:           {"lhr"},
		FormDestination:      {"jfk"},
		FormDepartureDate:    {"2024-12-25"},
		FormPassengersAdults: {"2"},
		FormCabinClass:       {"first"},
		FormSubmit:           {"Search Flights"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, "British Airways")
	assert.Contains(t, html, "Outbound")
	assert.Contains(t, html, "Return")
	assert.Contains(t, html, "London (LHR)")
	assert.Contains(t, html, "2024-12-25 09:00")
	assert.Contains(t, html, "7 hours 5 minutes")
	assert.Contains(t, html, "412.30 GBP")
	assert.Contains(t, html, "Offer ID: off_rt")
	assert.Contains(t, html, `<option value="first" selected>First</option>`)
	assert.Contains(t, html, `value="lhr"`)
}

func TestSearchFormSubmitHandler_MissingAirlineShowsNA(t *testing.T) {
	searcher := new(MockOfferSearcher)
	reader := new(MockSettingsReader)
	configured(reader)

	offer := directOffer("off_na")
	offer.Slices[0].Segments[0].OperatingCarrier = nil
	searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
		Return(&ProviderResponse{Offers: []Offer{offer}}, nil)

	r := newTestRouter(searcher, reader)
	w := postForm(r, "/", url.Values{
		FormOrigin:        {"LHR"},
		FormDestination:   {"JFK"},
		FormDepartureDate: {"2024-12-25"},
		FormSubmit:        {"1"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<strong>N/A</strong>")
}

func TestSearchFormSubmitHandler_CodeOnlyAirlineShowsCode(t *testing.T) {
	searcher := new(MockOfferSearcher)
	reader := new(MockSettingsReader)
	configured(reader)

	offer := directOffer("off_code")
	offer.Slices[0].Segments[0].OperatingCarrier = &Carrier{IATACode: "ZZ"}
	searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
		Return(&ProviderResponse{Offers: []Offer{offer}}, nil)

	r := newTestRouter(searcher, reader)
	w := postForm(r, "/", url.Values{
		FormOrigin:        {"LHR"},
		FormDestination:   {"JFK"},
		FormDepartureDate: {"2024-12-25"},
		FormSubmit:        {"1"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, "<strong>ZZ</strong>")
	assert.NotContains(t, html, "<strong></strong>")
	assert.NotContains(t, html, "(ZZ)")
}

func TestSearchFormSubmitHandler_RendersSelectAction(t *testing.T) {
	searcher := new(MockOfferSearcher)
	reader := new(MockSettingsReader)
	configured(reader)

	searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
		Return(&ProviderResponse{Offers: []Offer{directOffer("off_sel")}}, nil)

	r := newTestRouter(searcher, reader)
	w := postForm(r, "/", url.Values{
		FormOrigin:        {"LHR"},
		FormDestination:   {"JFK"},
		FormDepartureDate: {"2024-12-25"},
		FormSubmit:        {"1"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, `data-offer-id="off_sel"`)
	assert.Contains(t, html, "Select Flight")
}

func TestSearchFormSubmitHandler_RendersErrors(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(searcher *MockOfferSearcher, reader *MockSettingsReader)
		form       url.Values
		wantStatus int
		wantText   string
	}{
		{
			name:       "validation messages",
			setup:      func(*MockOfferSearcher, *MockSettingsReader) {},
			form:       url.Values{FormOrigin: {"LHR"}, FormDestination: {"JFK"}, FormDepartureDate: {"25/12/2024"}, FormSubmit: {"1"}},
			wantStatus: http.StatusBadRequest,
			wantText:   "Departure date must be in YYYY-MM-DD format.",
		},
		{
			name: "missing key",
			setup: func(_ *MockOfferSearcher, reader *MockSettingsReader) {
				reader.On("APIKey", mock.Anything).Return("", false, nil)
			},
			form:       url.Values{FormOrigin: {"LHR"}, FormDestination: {"JFK"}, FormDepartureDate: {"2024-12-25"}, FormSubmit: {"1"}},
			wantStatus: http.StatusServiceUnavailable,
			wantText:   "Error: Duffel API Key is not configured.",
		},
		{
			name: "settings unreachable",
			setup: func(_ *MockOfferSearcher, reader *MockSettingsReader) {
				reader.On("APIKey", mock.Anything).Return("", false, errors.New("dial tcp: refused"))
			},
			form:       url.Values{FormOrigin: {"LHR"}, FormDestination: {"JFK"}, FormDepartureDate: {"2024-12-25"}, FormSubmit: {"1"}},
			wantStatus: http.StatusServiceUnavailable,
			wantText:   "Flight search is temporarily unavailable.",
		},
		{
			name: "no results",
			setup: func(searcher *MockOfferSearcher, reader *MockSettingsReader) {
				configured(reader)
				searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
					Return(&ProviderResponse{}, nil)
			},
			form:       url.Values{FormOrigin: {"LHR"}, FormDestination: {"JFK"}, FormDepartureDate: {"2024-12-25"}, FormSubmit: {"1"}},
			wantStatus: http.StatusOK,
			wantText:   "No flights found for your criteria.",
		},
		{
			name: "timeout",
			setup: func(searcher *MockOfferSearcher, reader *MockSettingsReader) {
				configured(reader)
				searcher.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, context.DeadlineExceeded)
			},
			form:       url.Values{FormOrigin: {"LHR"}, FormDestination: {"JFK"}, FormDepartureDate: {"2024-12-25"}, FormSubmit: {"1"}},
			wantStatus: http.StatusBadGateway,
			wantText:   "flight search timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockOfferSearcher)
			reader := new(MockSettingsReader)
			tt.setup(searcher, reader)

			w := postForm(newTestRouter(searcher, reader), "/", tt.form)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantText)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter(new(MockOfferSearcher), new(MockSettingsReader))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
