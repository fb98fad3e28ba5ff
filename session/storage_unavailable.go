package session

import (
	"context"

	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
)

var _ Storage = UnavailableStorage{}

// UnavailableStorage stands in for a medium the host environment has disabled.
// Every call fails, so the rest of the system sees no session.
type UnavailableStorage struct{}

func (UnavailableStorage) Read(context.Context, string) (map[string]string, error) {
	return nil, apperrors.ErrStorageUnavailable
}

func (UnavailableStorage) Write(context.Context, string, map[string]string, ...string) error {
	return apperrors.ErrStorageUnavailable
}

func (UnavailableStorage) Delete(context.Context, string) error {
	return apperrors.ErrStorageUnavailable
}
