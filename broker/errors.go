package broker

import (
	"errors"
	"fmt"
)

// RejectedError means the broker received the order and refused it
// (insufficient buying power, unknown symbol, halted instrument, ...).
type RejectedError struct {
	Symbol string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("order rejected for %s: %s", e.Symbol, e.Reason)
}

// TransportError means the request never got a usable answer from the broker:
// network failure, timeout, or an unparseable response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("broker %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
