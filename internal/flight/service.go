package flight

import (
	"context"
	"errors"
	"time"

	"duffeltravel/pkg/idgen"
	"duffeltravel/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "duffeltravel/internal/flight"

// Search outcomes recorded on the flight_searches_total counter.
const (
	outcomeSuccess       = "success"
	outcomeValidation    = "validation_error"
	outcomeConfiguration = "configuration_error"
	outcomeProvider      = "provider_error"
	outcomeNoResults     = "no_results"
)

// Service runs one flight search per form submission. It holds no per-request
// state: queries, credentials and results live only for the duration of Search.
type Service struct {
	searcher OfferSearcher
	settings SettingsReader
	mapper   *OfferMapper
	ids      idgen.Generator
	timeout  time.Duration
	logger   logger.Logger
	searches metric.Int64Counter
}

func NewService(searcher OfferSearcher, settings SettingsReader, ids idgen.Generator, timeout time.Duration, logger logger.Logger) *Service {
	counter, err := otel.Meter(meterName).Int64Counter("flight_searches_total",
		metric.WithDescription("Flight searches by outcome"),
	)
	if err != nil {
		counter = noop.Int64Counter{}
	}

	return &Service{
		searcher: searcher,
		settings: settings,
		mapper:   NewOfferMapper(logger),
		ids:      ids,
		timeout:  timeout,
		logger:   logger,
		searches: counter,
	}
}

// Search validates the raw submission, calls the provider with the currently
// stored credentials and maps the response. Errors are *ValidationError,
// *ConfigurationError or *SearchError.
func (s *Service) Search(ctx context.Context, raw map[string]string) (*SearchResult, error) {
	searchID := s.ids.NewID()
	start := time.Now()

	query, err := BuildQuery(raw)
	if err != nil {
		s.record(ctx, outcomeValidation)
		s.logger.Debug("search rejected",
			logger.Field{Key: "search_id", Value: searchID},
			logger.Field{Key: "err", Value: err},
		)
		return nil, err
	}

	creds, err := s.credentials(ctx)
	if err != nil {
		s.record(ctx, outcomeConfiguration)
		s.logger.Error("search not configured",
			logger.Field{Key: "search_id", Value: searchID},
			logger.Field{Key: "err", Value: err},
		)
		return nil, err
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, callErr := s.searcher.SearchOffers(callCtx, creds, query)
	offers, err := s.mapper.Map(resp, callErr)
	if err != nil {
		s.logFailure(ctx, searchID, err, callErr, time.Since(start))
		return nil, err
	}

	offers = s.applySorting(offers, sortOptionsFromForm(raw))

	s.record(ctx, outcomeSuccess)
	s.logger.Info("search completed",
		logger.Field{Key: "search_id", Value: searchID},
		logger.Field{Key: "origin", Value: query.Slices[0].Origin},
		logger.Field{Key: "destination", Value: query.Slices[0].Destination},
		logger.Field{Key: "offers", Value: len(offers)},
		logger.Field{Key: "elapsed", Value: time.Since(start)},
	)

	return &SearchResult{
		SearchID: searchID,
		Query:    query,
		Offers:   offers,
	}, nil
}

func (s *Service) credentials(ctx context.Context) (Credentials, error) {
	key, ok, err := s.settings.APIKey(ctx)
	if err != nil {
		return Credentials{}, &ConfigurationError{Reason: "failed to read API settings", Err: err}
	}
	if !ok {
		return Credentials{}, &ConfigurationError{Reason: "API Key is not configured."}
	}

	env, err := s.settings.APIEnvironment(ctx)
	if err != nil {
		return Credentials{}, &ConfigurationError{Reason: "failed to read API settings", Err: err}
	}

	return Credentials{APIKey: key, Environment: env}, nil
}

func (s *Service) logFailure(ctx context.Context, searchID string, err, callErr error, elapsed time.Duration) {
	var serr *SearchError
	if errors.As(err, &serr) && serr.Kind == KindNoResults {
		s.record(ctx, outcomeNoResults)
		s.logger.Info("search returned no offers",
			logger.Field{Key: "search_id", Value: searchID},
			logger.Field{Key: "elapsed", Value: elapsed},
		)
		return
	}

	s.record(ctx, outcomeProvider)
	fields := []logger.Field{
		{Key: "search_id", Value: searchID},
		{Key: "elapsed", Value: elapsed},
		{Key: "err", Value: err},
	}
	if callErr != nil {
		fields = append(fields, logger.Field{Key: "cause", Value: callErr})
	}
	s.logger.Error("provider search failed", fields...)
}

func (s *Service) record(ctx context.Context, outcome string) {
	s.searches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
