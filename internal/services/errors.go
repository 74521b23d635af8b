package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// classify maps a Web API error onto the shared error kinds, keeping the original in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return fromStatus(apiErr.Status, shared.ErrAPIRequest, err)
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return fromStatus(apiErrPtr.Status, shared.ErrAPIRequest, err)
	}

	return fromTransport(err)
}

// classifyToken maps a token endpoint error. A 400 from the token endpoint means the code was rejected.
func classifyToken(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return fromStatus(retrieveErr.Response.StatusCode, shared.ErrUpstreamAuth, err)
	}
	return fromTransport(err)
}

func fromStatus(status int, badRequest error, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", shared.ErrUpstreamAuth, err)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %w", shared.ErrNotFound, err)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", shared.ErrUpstreamTransient, err)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", badRequest, err)
	default:
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
}

func fromTransport(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", shared.ErrUpstreamTransient, err)
	}
	return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
}
