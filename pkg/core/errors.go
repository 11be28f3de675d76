package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks fatal configuration problems: category overlap,
	// too few forbidden-free natural pairs or extended spots, invalid layouts.
	ErrConfiguration = errors.New("configuration error")

	// ErrNoReservation is returned when an apartment has no personal
	// reservation left to consume.
	ErrNoReservation = errors.New("no reservation for apartment")

	// ErrAlreadyReserved is returned when pre-reservation is requested for an
	// apartment that already holds one.
	ErrAlreadyReserved = errors.New("apartment already holds a reservation")
)

// configErrorf wraps ErrConfiguration with a formatted detail message.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// IsConfigurationError reports whether err is a fatal configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
