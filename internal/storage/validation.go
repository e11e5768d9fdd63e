// Package storage provides the shared local state store backends.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/finlens/internal/service"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrEmptyKey     = errors.New("key cannot be empty")
	ErrUnknownKey   = errors.New("unknown document key")
	ErrInvalidValue = errors.New("document is not valid JSON")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateKey ensures key names one of the persisted documents.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	if !service.IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// validateValue ensures a document is well-formed JSON before it is stored.
func validateValue(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("%w: %s", ErrInvalidValue, key)
	}
	return nil
}

// validateGet checks the arguments shared by every read.
func validateGet(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return validateKey(key)
}

// validateSet checks the arguments shared by every write.
func validateSet(ctx context.Context, key string, value []byte) error {
	if err := validateGet(ctx, key); err != nil {
		return err
	}
	return validateValue(key, value)
}
