package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been opened or was already closed.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrCountryNotFound indicates a country code or name is not in the catalog.
	ErrCountryNotFound = errors.New("country not found")
	// ErrGateBusy is returned when an answer wait is registered while another one is outstanding.
	ErrGateBusy = errors.New("answer gate already has a pending waiter")
	// ErrFeedUnavailable indicates a data feed is not configured.
	ErrFeedUnavailable = errors.New("data feed unavailable")
)
