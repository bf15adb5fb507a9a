package analyzer

import (
	"errors"
	"fmt"

	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
)

// Kind classifies a failed analysis.
type Kind int

const (
	KindUnknown Kind = iota
	// InputMissing: endpoint and/or hash blank, or hash malformed.
	InputMissing
	// TraceUnavailable: the trace call returned null or a JSON-RPC error.
	TraceUnavailable
	// TransactionUnavailable: the lookup returned null or a JSON-RPC error.
	TransactionUnavailable
	// TransportError: network or HTTP failure during either call.
	TransportError
	// ProcessingError: anything failing after the data arrived.
	ProcessingError
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	InputMissing:           "input_missing",
	TraceUnavailable:       "trace_unavailable",
	TransactionUnavailable: "transaction_unavailable",
	TransportError:         "transport_error",
	ProcessingError:        "processing_error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind for JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is a user-facing failure. Key selects the localized message and
// Detail carries untranslatable text such as a node's error message, so the
// same Error can be rendered again in another language.
type Error struct {
	Kind   Kind
	Key    i18n.Key
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Key)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Localize renders the message in loc's language.
func (e *Error) Localize(loc i18n.Localizer) string {
	return loc.With(e.Key, e.Detail)
}

func newError(kind Kind, key i18n.Key, err error) *Error {
	e := &Error{Kind: kind, Key: key, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// AsError extracts an *Error from err. Anything else becomes a
// ProcessingError carrying err's text.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(ProcessingError, i18n.ProcessingError, err)
}
