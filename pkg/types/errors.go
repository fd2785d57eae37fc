package types

import "errors"

// ErrorKind classifies failures on the fetch path.
type ErrorKind string

const (
	KindRateLimited ErrorKind = "rate_limited" // upstream quota exhausted
	KindFetchFailed ErrorKind = "fetch_failed" // any other non-success response
	KindNetwork     ErrorKind = "network"      // no response received
	KindTimeout     ErrorKind = "timeout"      // request exceeded the client timeout
)

// FetchError is returned by the fetch path. Message is safe to show to users verbatim.
type FetchError struct {
	Err     error
	Kind    ErrorKind
	Message string
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// UserMessage returns the message to display for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to load repositories"
}
