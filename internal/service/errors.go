package service

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized = errors.New("unauthorized")  // 403
	ErrNotFound     = errors.New("not found")     // 404
	ErrInvalidState = errors.New("invalid state") // 409
	ErrValidation   = errors.New("validation")    // 400
	ErrIDsExhausted = errors.New("product ids exhausted")
)

// KV is a string slot store keyed by name.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
