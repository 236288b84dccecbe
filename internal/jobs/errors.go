// SPDX-License-Identifier: MIT

package jobs

import (
	"errors"
	"fmt"

	"github.com/tvsync/rlaxx-sync/internal/metrics"
	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
)

var (
	ErrAuthentication = rlaxx.ErrAuthentication
	ErrFetch          = rlaxx.ErrFetch
	// ErrEmptyCatalog marks a run that stopped because no channels were returned.
	ErrEmptyCatalog = errors.New("catalog returned no channels")
	// ErrWrite marks output file failures.
	ErrWrite = errors.New("write output failed")
	// ErrConfig marks an unusable run configuration.
	ErrConfig = errors.New("invalid configuration")
)

// Kind classifies why a run stopped.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindAuthentication
	KindFetch
	KindEmptyCatalog
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuthentication:
		return "authentication"
	case KindFetch:
		return "fetch"
	case KindEmptyCatalog:
		return "empty_catalog"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrConfig
	case KindAuthentication:
		return ErrAuthentication
	case KindFetch:
		return ErrFetch
	case KindEmptyCatalog:
		return ErrEmptyCatalog
	case KindWrite:
		return ErrWrite
	default:
		return nil
	}
}

func (k Kind) outcome() string {
	switch k {
	case KindAuthentication:
		return metrics.OutcomeAuthError
	case KindFetch:
		return metrics.OutcomeFetchError
	case KindEmptyCatalog:
		return metrics.OutcomeEmptyCatalog
	case KindWrite:
		return metrics.OutcomeWriteError
	default:
		return metrics.OutcomeConfigError
	}
}

// SyncError is the error returned by Sync. errors.Is matches both the kind
// sentinel and the underlying cause.
type SyncError struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *SyncError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() []error {
	var errs []error
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the Kind of a Sync error, KindUnknown for anything else.
func KindOf(err error) Kind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
