package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

type ErrorKind int64

const (
	// NotPresent: no display answers on the bus (or no bus at all)
	NotPresent ErrorKind = iota
	// BusTimeout: the bus did not complete the transfer in time, worth retrying
	BusTimeout
	// Nack: the controller refused the transfer
	Nack
)

func (k ErrorKind) String() string {
	switch k {
	case NotPresent:
		return "not present"
	case BusTimeout:
		return "bus timeout"
	case Nack:
		return "nack"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int64(k))
	}
}

// Error is a classified display failure.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("display %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Transient() bool {
	return e.Kind == BusTimeout
}

// Classify wraps err into an *Error describing op. Errors that are already
// classified are returned as is.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var deviceErr *Error
	if errors.As(err, &deviceErr) {
		return err
	}
	return &Error{Kind: kindOf(err), Op: op, Err: err}
}

// IsTransient reports whether err is a device error worth retrying.
func IsTransient(err error) bool {
	var deviceErr *Error
	return errors.As(err, &deviceErr) && deviceErr.Transient()
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, syscall.ENXIO),
		errors.Is(err, syscall.ENODEV),
		errors.Is(err, syscall.ENOENT),
		errors.Is(err, os.ErrNotExist):
		return NotPresent
	case errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.EAGAIN),
		errors.Is(err, syscall.EBUSY),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded):
		return BusTimeout
	}

	// periph drivers format errno values with %v, so the chain is often lost
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such device"),
		strings.Contains(msg, "no such file"),
		strings.Contains(msg, "no bus found"):
		return NotPresent
	case strings.Contains(msg, "timed out"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporarily unavailable"),
		strings.Contains(msg, "resource busy"):
		return BusTimeout
	default:
		return Nack
	}
}

// Backoff returns the delay to wait before retry number attempt (0 based):
// base, 2·base, 4·base...
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 0 {
		return 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	return base << uint(attempt)
}

const maxBackoffShift = 16
