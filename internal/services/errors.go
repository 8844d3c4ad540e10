package services

import (
	"errors"
	"fmt"
	"store-locator/internal/ports"
)

// Why a location acquisition failed.
type AcquisitionReason string

const (
	ReasonPermissionDenied AcquisitionReason = "permission_denied"
	ReasonTimeout          AcquisitionReason = "timeout"
	ReasonUnavailable      AcquisitionReason = "unavailable"
)

// AcquisitionError is fatal to entering the map view but not to the
// process. Message is suitable for showing to the user as is.
type AcquisitionError struct {
	Reason  AcquisitionReason
	Message string
	Err     error
}

func (e *AcquisitionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Why a store fetch failed.
type FetchReason string

const (
	FetchReasonInvalidQuery FetchReason = "invalid_query"
	FetchReasonNetwork      FetchReason = "network"
	FetchReasonStatus       FetchReason = "status"
	FetchReasonDecode       FetchReason = "decode"
)

// FetchError is recovered locally: it is logged and the displayed
// collection stays as it was.
type FetchError struct {
	Reason FetchReason
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch stores (%s): %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func classifyFetchError(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	var se *ports.StatusError
	switch {
	case errors.As(err, &se):
		return &FetchError{Reason: FetchReasonStatus, Err: err}
	case errors.Is(err, ports.ErrMalformedResponse):
		return &FetchError{Reason: FetchReasonDecode, Err: err}
	default:
		return &FetchError{Reason: FetchReasonNetwork, Err: err}
	}
}
