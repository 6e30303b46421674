package flight

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"duffeltravel/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service *Service
	logger  logger.Logger
}

func NewFlightHandler(s *Service, logger logger.Logger) *FlightHandler {
	return &FlightHandler{
		service: s,
		logger:  logger,
	}
}

func (h *FlightHandler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(searchPage)

	router.GET("/", h.SearchFormHandler)
	router.POST("/", h.SearchFormSubmitHandler)
	router.POST("/v1/flights/search", h.SearchFlightsHandler)
	router.GET("/health", h.HealthHandler)
}

// SearchFormHandler renders an empty search form.
func (h *FlightHandler) SearchFormHandler(c *gin.Context) {
	c.HTML(http.StatusOK, searchPageName, newSearchPageView(nil))
}

// SearchFormSubmitHandler runs a search for a submitted form and renders the
// form again with the results or the errors.
func (h *FlightHandler) SearchFormSubmitHandler(c *gin.Context) {
	raw, err := formValues(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, searchPageName, newSearchPageView(nil))
		return
	}

	view := newSearchPageView(raw)
	if _, submitted := raw[FormSubmit]; !submitted {
		c.HTML(http.StatusOK, searchPageName, view)
		return
	}

	result, err := h.service.Search(c.Request.Context(), raw)
	if err != nil {
		status, _ := statusFor(err)
		applyErrorToView(&view, err)
		c.HTML(status, searchPageName, view)
		return
	}

	view.Offers = toOfferViews(result.Offers)
	c.HTML(http.StatusOK, searchPageName, view)
}

// SearchFlightsHandler godoc
// @Summary      Search flight offers
// @Description  Validates the search fields, queries the provider with the stored API key and returns display-ready offers
// @Tags         flights
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        request body map[string]string true "origin, destination, departure_date, passengers_adults, cabin_class, sort_by, sort_order"
// @Success      200 {object} SearchResult
// @Failure      400 {object} map[string]interface{}
// @Failure      502 {object} map[string]interface{}
// @Failure      503 {object} map[string]interface{}
// @Router       /v1/flights/search [post]
func (h *FlightHandler) SearchFlightsHandler(c *gin.Context) {
	var raw map[string]string
	var err error
	if c.ContentType() == gin.MIMEJSON {
		raw, err = jsonValues(c)
	} else {
		raw, err = formValues(c)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request format: %v", err),
			"code":  ErrorCodeValidation,
		})
		return
	}

	result, err := h.service.Search(c.Request.Context(), raw)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HealthHandler godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *FlightHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func formValues(c *gin.Context) (map[string]string, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}

	raw := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	return raw, nil
}

// jsonValues flattens a JSON object into form-style strings so both inputs go
// through the same validation.
func jsonValues(c *gin.Context) (map[string]string, error) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, err
	}

	raw := make(map[string]string, len(body))
	for key, value := range body {
		if value == nil {
			continue
		}
		raw[key] = fmt.Sprint(value)
	}
	return raw, nil
}

func statusFor(err error) (int, ErrorCode) {
	var verr *ValidationError
	var serr *SearchError
	var cerr *ConfigurationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorCodeValidation
	case errors.As(err, &serr) && serr.Kind == KindNoResults:
		return http.StatusOK, ErrorCodeNoResults
	case errors.As(err, &serr):
		return http.StatusBadGateway, ErrorCodeProvider
	case errors.As(err, &cerr):
		return http.StatusServiceUnavailable, ErrorCodeConfiguration
	default:
		return http.StatusInternalServerError, ErrorCodeInternalFailure
	}
}

func sendError(c *gin.Context, err error) {
	status, code := statusFor(err)

	var verr *ValidationError
	var serr *SearchError
	var cerr *ConfigurationError

	switch {
	case errors.As(err, &verr):
		c.JSON(status, gin.H{
			"error":  "Invalid search request",
			"code":   code,
			"fields": verr.Fields,
		})
	case errors.As(err, &serr):
		body := gin.H{
			"error": serr.Message,
			"code":  code,
		}
		if len(serr.Details) > 0 {
			body["details"] = serr.Details
		}
		if serr.Kind == KindNoResults {
			body["offers"] = []OfferSummary{}
		}
		c.JSON(status, body)
	case errors.As(err, &cerr):
		c.JSON(status, gin.H{
			"error": cerr.Reason,
			"code":  code,
		})
	default:
		// Default to 500 for unknown errors
		c.JSON(status, gin.H{
			"error":   "Internal Server Error",
			"code":    code,
			"details": err.Error(),
		})
	}
}

func applyErrorToView(view *searchPageView, err error) {
	var verr *ValidationError
	var serr *SearchError
	var cerr *ConfigurationError

	switch {
	case errors.As(err, &verr):
		for _, f := range verr.Fields {
			view.Errors = append(view.Errors, f.Message)
		}
	case errors.As(err, &serr):
		view.Message = serr.Message
		for _, d := range serr.Details {
			if d.Message != "" && d.Message != serr.Message {
				view.Errors = append(view.Errors, strings.TrimSpace(d.Title+" "+d.Message))
			}
		}
	case errors.As(err, &cerr) && cerr.Err != nil:
		view.Message = "Flight search is temporarily unavailable."
	case errors.As(err, &cerr):
		view.Message = "Error: Duffel " + cerr.Reason
	default:
		view.Message = "An unexpected error occurred while searching for flights."
	}
}
