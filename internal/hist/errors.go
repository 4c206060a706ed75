package hist

import (
	"errors"

	"github.com/banshee-data/wg1plot/internal/registry"
)

var (
	// ErrDuplicateLabel is returned when a label is already registered.
	ErrDuplicateLabel = registry.ErrDuplicateLabel
	// ErrLengthMismatch is returned when weights and values differ in length.
	ErrLengthMismatch = errors.New("weights and values differ in length")
	// ErrInvalidWeight is returned for negative or NaN weights.
	ErrInvalidWeight = errors.New("weights must be non-negative numbers")
	// ErrComposerFinalized is returned when a component is added after the
	// composer has been drawn.
	ErrComposerFinalized = errors.New("composer already rendered")
	// ErrInvalidStyle is returned for styles a composer cannot draw.
	ErrInvalidStyle = errors.New("style not supported by this composer")
	// ErrInvalidVariable is returned by NewVariable.
	ErrInvalidVariable = errors.New("invalid variable")
	// ErrDataComponentSet is returned when a second data component is added.
	ErrDataComponentSet = errors.New("data component already set")
	// ErrMissingComponent is returned when a data/MC plot is drawn without
	// data or without MC.
	ErrMissingComponent = errors.New("data/MC plot needs data and at least one MC component")
)
