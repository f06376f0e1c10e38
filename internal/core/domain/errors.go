package domain

import "errors"

var (
	// ErrNetwork reports a transport failure: offline, DNS, refused connection.
	ErrNetwork = errors.New("network error")

	// ErrProtocol reports a non-success response status or an unreadable body.
	ErrProtocol = errors.New("protocol error")

	ErrNotFound = errors.New("product not found")
)
