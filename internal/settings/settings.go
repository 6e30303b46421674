package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"duffeltravel/pkg/kvstore"
	"duffeltravel/pkg/logger"
)

// storageKey is the single document holding the provider settings.
const storageKey = "duffel_travel_settings"

type Environment string

const (
	EnvironmentTest Environment = "test"
	EnvironmentLive Environment = "live"
)

// ParseEnvironment only accepts "live" as live. Everything else, including empty input, is test.
func ParseEnvironment(raw string) Environment {
	if strings.EqualFold(strings.TrimSpace(raw), string(EnvironmentLive)) {
		return EnvironmentLive
	}
	return EnvironmentTest
}

type Settings struct {
	APIKey      string      `json:"duffel_api_key"`
	Environment Environment `json:"duffel_api_environment"`
}

// Store reads and writes Settings through a key/value backend.
type Store struct {
	kv     kvstore.Store
	logger logger.Logger
}

func NewStore(kv kvstore.Store, logger logger.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
	}
}

// Load returns the stored settings, or defaults when nothing was saved yet.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	raw, err := s.kv.Get(ctx, storageKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return Settings{Environment: EnvironmentTest}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var stored Settings
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	stored.Environment = ParseEnvironment(string(stored.Environment))
	return stored, nil
}

// APIKey reports the configured key. ok is false when no key has been saved.
func (s *Store) APIKey(ctx context.Context) (key string, ok bool, err error) {
	current, err := s.Load(ctx)
	if err != nil {
		return "", false, err
	}
	return current.APIKey, current.APIKey != "", nil
}

func (s *Store) APIEnvironment(ctx context.Context) (Environment, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return current.Environment, nil
}

// Save sanitizes and persists the settings. An empty APIKey keeps the stored key.
func (s *Store) Save(ctx context.Context, in Settings) (Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return Settings{}, err
	}

	next := Settings{
		APIKey:      strings.TrimSpace(in.APIKey),
		Environment: ParseEnvironment(string(in.Environment)),
	}
	if next.APIKey == "" {
		next.APIKey = current.APIKey
	}

	if err := s.write(ctx, next); err != nil {
		return Settings{}, err
	}

	s.logger.Info("settings updated",
		logger.Field{Key: "environment", Value: string(next.Environment)},
		logger.Field{Key: "api_key_configured", Value: next.APIKey != ""},
	)
	return next, nil
}

// Seed writes in only when no API key is stored yet. It reports whether it wrote.
func (s *Store) Seed(ctx context.Context, in Settings) (bool, error) {
	if strings.TrimSpace(in.APIKey) == "" {
		return false, nil
	}

	_, ok, err := s.APIKey(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	if _, err := s.Save(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

// Clear drops the stored settings so Load returns defaults again.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Del(ctx, storageKey); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	s.logger.Info("settings cleared")
	return nil
}

func (s *Store) write(ctx context.Context, in Settings) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.kv.Set(ctx, storageKey, string(payload), 0); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// MaskKey keeps the first and last four characters of a key for display,
// e.g. "duff...7890". Keys of eight characters or fewer are fully starred.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}
