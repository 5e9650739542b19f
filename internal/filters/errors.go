// Error kinds raised while building and running filters
package filters

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes configuration failures from processing failures
type ErrorKind int

const (
	// KindConfiguration is raised at build time, before any pixel is touched
	KindConfiguration ErrorKind = iota + 1
	// KindProcessing is raised while a chain runs over an image
	KindProcessing
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindProcessing:
		return "processing error"
	}
	return "unknown error"
}

// Sentinels for errors.Is checks against an *Error of the matching kind.
var (
	ErrConfiguration = errors.New(KindConfiguration.String())
	ErrProcessing    = errors.New(KindProcessing.String())
)

// Error carries the kind of failure and a human readable message
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrProcessing:
		return e.Kind == KindProcessing
	}
	return false
}

// Configurationf builds a configuration error
func Configurationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Msg: fmt.Sprintf(format, args...)}
}

// Processingf builds a processing error
func Processingf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindProcessing, Msg: fmt.Sprintf(format, args...)}
}

func wrapConfiguration(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Msg: fmt.Sprintf(format, args...), Err: err}
}
