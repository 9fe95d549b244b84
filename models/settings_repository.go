package models

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// GetSettings returns the stored settings, or the defaults when they are
// missing or unreadable. Fields absent from the stored document keep their
// default value.
func (s *Store) GetSettings(ctx context.Context) AppSettings {
	settings := DefaultSettings()
	data, err := s.docs.Get(ctx, settingsKey)
	if err != nil {
		if !errors.Is(err, ErrDocumentNotFound) {
			s.logger.Warn("failed to read settings", zap.Error(err))
		}
		return settings
	}

	decoded := settings
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.logger.Warn("failed to decode settings", zap.Error(err))
		return settings
	}
	return decoded
}

// UpdateSettings shallow-merges patch into the current settings. A PIN in the
// patch, empty included, is validated and also written to the secure store.
func (s *Store) UpdateSettings(ctx context.Context, patch SettingsPatch) (AppSettings, error) {
	pinChanged := patch.PIN != nil
	if pinChanged {
		if err := ValidatePIN(*patch.PIN); err != nil {
			return AppSettings{}, err
		}
	}

	updated := s.GetSettings(ctx).Merge(patch)
	if err := s.putJSON(ctx, settingsKey, updated); err != nil {
		return AppSettings{}, fmt.Errorf("write settings: %w", err)
	}

	if pinChanged {
		if err := s.secrets.Put(ctx, pinKey, []byte(*patch.PIN)); err != nil {
			return AppSettings{}, fmt.Errorf("write pin: %w", err)
		}
	}
	return updated, nil
}

// GetPIN returns the stored PIN, or DefaultPIN when none is readable.
func (s *Store) GetPIN(ctx context.Context) string {
	pin, err := s.storedPIN(ctx)
	if err != nil {
		s.logger.Warn("failed to read pin", zap.Error(err))
		return DefaultPIN
	}
	return pin
}

// storedPIN returns DefaultPIN when no PIN was ever written and an error when
// the secure store cannot be read.
func (s *Store) storedPIN(ctx context.Context) (string, error) {
	pin, err := s.secrets.Get(ctx, pinKey)
	if errors.Is(err, ErrDocumentNotFound) {
		return DefaultPIN, nil
	}
	if err != nil {
		return "", err
	}
	if len(pin) == 0 {
		return DefaultPIN, nil
	}
	return string(pin), nil
}

// SetPIN writes pin to the secure store and mirrors it into settings.
func (s *Store) SetPIN(ctx context.Context, pin string) error {
	if err := ValidatePIN(pin); err != nil {
		return err
	}
	if err := s.secrets.Put(ctx, pinKey, []byte(pin)); err != nil {
		return fmt.Errorf("write pin: %w", err)
	}

	settings := s.GetSettings(ctx)
	settings.PIN = pin
	if err := s.putJSON(ctx, settingsKey, settings); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// VerifyPIN fails closed: an unreadable secure store rejects every candidate,
// DefaultPIN included.
func (s *Store) VerifyPIN(ctx context.Context, candidate string) bool {
	stored, err := s.storedPIN(ctx)
	if err != nil {
		s.logger.Warn("failed to read pin, rejecting", zap.Error(err))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
