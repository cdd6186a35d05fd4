// Package failure groups registered module errors into the kinds a caller
// acts on: fix the input, get permission, wait for a different state, or
// retry against a failing dependency.
package failure

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	errorsmod "cosmossdk.io/errors"
)

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindState
	KindNotFound
	KindExternal
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindNotFound:
		return "not_found"
	case KindExternal:
		return "external"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to the status code the REST API responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type entry struct {
	err  error
	kind Kind
}

var (
	mu       sync.RWMutex
	registry []entry
)

// Register associates sentinel errors with a kind. Modules call it from
// their types package at init time.
func Register(kind Kind, errs ...error) {
	mu.Lock()
	defer mu.Unlock()
	for _, err := range errs {
		registry = append(registry, entry{err: err, kind: kind})
	}
}

type coded interface {
	Codespace() string
	ABCICode() uint32
}

// Classify returns the kind of the outermost registered sentinel in err's
// chain, so a transfer failure wrapping a token error reports as external.
func Classify(err error) Kind {
	mu.RLock()
	defer mu.RUnlock()

	for layer := err; layer != nil; layer = errors.Unwrap(layer) {
		for _, e := range registry {
			if sameError(layer, e.err) {
				return e.kind
			}
		}
	}
	return KindUnknown
}

func sameError(layer, sentinel error) bool {
	if layer == sentinel {
		return true
	}
	l, ok := layer.(coded)
	if !ok {
		return false
	}
	s, ok := sentinel.(coded)
	return ok && l.Codespace() == s.Codespace() && l.ABCICode() == s.ABCICode()
}

// Info describes an error for display.
type Info struct {
	Kind      string `json:"kind"`
	Codespace string `json:"codespace,omitempty"`
	Code      uint32 `json:"code,omitempty"`
	Message   string `json:"message"`
}

// Describe returns the kind, codespace and code of err.
func Describe(err error) Info {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	return Info{
		Kind:      Classify(err).String(),
		Codespace: codespace,
		Code:      code,
		Message:   err.Error(),
	}
}

// Recover runs fn and converts a panic raised inside it into an error, so
// a faulting dependency is reported the same way as a failing one.
func Recover(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn()
}
