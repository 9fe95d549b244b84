package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/logger"
)

const (
	productsKey   = "sandyspace_products"
	categoriesKey = "sandyspace_categories"
	settingsKey   = "sandyspace_settings"
	pinKey        = "sandyspace_pin"
)

// Store owns the four persisted documents: products, categories, settings
// and the PIN. Reads of a missing or corrupt document fall back to the
// documented default; failed writes are returned to the caller.
//
// Every product mutation rewrites the whole collection. Two concurrent
// writers can lose each other's update.
//
// GetPIN falls back to DefaultPIN when the secure store is unreadable, but
// VerifyPIN rejects every candidate in that case.
type Store struct {
	docs    DocumentStore
	secrets DocumentStore
	logger  logger.ZapLogger
	now     func() time.Time
}

type StoreOption func(*Store)

// WithClock overrides time.Now for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore builds a store over docs. secrets holds the PIN and should be the
// most protected backend available.
func NewStore(docs, secrets DocumentStore, log logger.ZapLogger, opts ...StoreOption) *Store {
	s := &Store{
		docs:    docs,
		secrets: secrets,
		logger:  log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize is run on every start. It rewrites the category list and seeds
// settings and PIN when they are absent. Safe to call repeatedly.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.putJSON(ctx, categoriesKey, defaultCategories); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}

	if _, err := s.docs.Get(ctx, settingsKey); errors.Is(err, ErrDocumentNotFound) {
		if err := s.putJSON(ctx, settingsKey, DefaultSettings()); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}

	if pin, err := s.secrets.Get(ctx, pinKey); errors.Is(err, ErrDocumentNotFound) || (err == nil && len(pin) == 0) {
		if err := s.secrets.Put(ctx, pinKey, []byte(DefaultPIN)); err != nil {
			return fmt.Errorf("seed pin: %w", err)
		}
	}
	return nil
}

// ListCategories always returns the built-in catalog.
func (s *Store) ListCategories(_ context.Context) []Category {
	return DefaultCategories()
}

func (s *Store) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.docs.Put(ctx, key, data)
}

// getJSON decodes the document at key into v. It reports false when the
// document is missing or unreadable, in which case v is left untouched.
func (s *Store) getJSON(ctx context.Context, key string, v any) bool {
	data, err := s.docs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrDocumentNotFound) {
			s.logger.Warn("failed to read document", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("failed to decode document", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
