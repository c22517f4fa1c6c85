//go:build !windows

package acad

import (
	"context"

	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// Open always fails outside Windows.
func Open(_ context.Context, _ Config) (drawing.Session, error) {
	return nil, drawingerrors.NewSessionUnavailableError(errUnsupportedPlatform)
}
