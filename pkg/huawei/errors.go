package huawei

import (
	"errors"
	"fmt"
)

var (
	ErrTokenResponse        = errors.New("invalid token response")
	ErrPayloadMalformed     = errors.New("purchase payload malformed")
	ErrVerificationRejected = errors.New("verification rejected")
)

// TransportError reports a failed HTTP exchange with a Huawei endpoint:
// the request could not be sent, the status was not 2xx, or the body was
// not valid JSON.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TokenAcquisitionError is returned when an access token could not be
// obtained. Err is either a *TransportError or ErrTokenResponse.
type TokenAcquisitionError struct {
	ClientID string
	Err      error
}

func (e *TokenAcquisitionError) Error() string {
	return fmt.Sprintf("acquire access token for client %s: %v", e.ClientID, e.Err)
}

func (e *TokenAcquisitionError) Unwrap() error {
	return e.Err
}

// VerificationError carries the responseCode and responseMessage of an
// envelope that did not contain a purchase payload.
type VerificationError struct {
	Code    string
	Message string
}

func (e *VerificationError) Error() string {
	return e.Message
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerificationRejected
}
