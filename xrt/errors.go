package xrt

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrTypeMismatch      = errors.New("filter name must be a string")
	ErrInvalidFilterName = errors.New("invalid filter name")
	ErrUnknownChannel    = errors.New("unknown channel")
	ErrRecordCount       = errors.New("unexpected number of channel records")
	ErrNotGenx           = errors.New("not a genx file")
	ErrNoVariable        = errors.New("variable not found")
	ErrStoredName        = errors.New("stored channel name cannot be resolved")
)

// FilterNameError reports a filter name that could not be resolved.
type FilterNameError struct {
	Input string
	// Wheel is 1 or 2 for the part that failed in a two-part name, or 0
	// for a single filter wheel name.
	Wheel int
}

// Error describes the unresolvable name and, for two-part names, the wheel.
func (e *FilterNameError) Error() string {
	if e.Wheel == 0 {
		return fmt.Sprintf("cannot interpret filter %q", e.Input)
	}
	return fmt.Sprintf("cannot interpret name of filter%d in %q", e.Wheel, e.Input)
}

// Unwrap returns ErrInvalidFilterName.
func (e *FilterNameError) Unwrap() error { return ErrInvalidFilterName }

// UnknownChannelError reports a canonical name outside the channel table.
type UnknownChannelError struct {
	Name string
}

// Error lists the available channels.
func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("%s is not a valid channel, the available channels are: %s",
		e.Name, strings.Join(channelNames[:], ", "))
}

// Unwrap returns ErrUnknownChannel.
func (e *UnknownChannelError) Unwrap() error { return ErrUnknownChannel }
