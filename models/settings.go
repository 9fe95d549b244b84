package models

import (
	"github.com/creasty/defaults"

	"github.com/sandyspace/catalog-manager/messages"
)

const DefaultPIN = "0000"

// AppSettings is the singleton settings document.
type AppSettings struct {
	AIAPIKey    string `json:"aiApiKey"`
	APIEndpoint string `json:"apiEndpoint" default:"https://api.sandyspace.com"`
	PIN         string `json:"pin" default:"0000"`
}

func DefaultSettings() AppSettings {
	var s AppSettings
	defaults.MustSet(&s)
	return s
}

// SettingsPatch is a partial update; nil fields are left untouched.
type SettingsPatch struct {
	AIAPIKey    *string `json:"aiApiKey,omitempty"`
	APIEndpoint *string `json:"apiEndpoint,omitempty"`
	PIN         *string `json:"pin,omitempty"`
}

// Merge applies p on top of s (shallow).
func (s AppSettings) Merge(p SettingsPatch) AppSettings {
	if p.AIAPIKey != nil {
		s.AIAPIKey = *p.AIAPIKey
	}
	if p.APIEndpoint != nil {
		s.APIEndpoint = *p.APIEndpoint
	}
	if p.PIN != nil {
		s.PIN = *p.PIN
	}
	return s
}

// ValidatePIN checks that pin is exactly four ASCII digits.
func ValidatePIN(pin string) error {
	if len(pin) != 4 {
		return &ValidationError{Field: "pin", MessageID: messages.PinFormat}
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return &ValidationError{Field: "pin", MessageID: messages.PinFormat}
		}
	}
	return nil
}

// ValidatePINChange validates a new PIN and its confirmation.
func ValidatePINChange(newPIN, confirm string) error {
	if err := ValidatePIN(newPIN); err != nil {
		return err
	}
	if newPIN != confirm {
		return &ValidationError{Field: "confirmPin", MessageID: messages.PinMismatch}
	}
	return nil
}
