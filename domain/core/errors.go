package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Ingestion errors
	ErrData = errors.New("malformed input data")

	// Configuration errors
	ErrInvalidThreshold = errors.New("invalid threshold")

	// Graph construction errors
	ErrInvalidRelation = errors.New("invalid relation")

	// Not found errors
	ErrNotFound     = errors.New("resource not found")
	ErrGeneNotFound = fmt.Errorf("%w: gene", ErrNotFound)
	ErrEdgeNotFound = fmt.Errorf("%w: edge", ErrNotFound)
	ErrRunNotFound  = fmt.Errorf("%w: run", ErrNotFound)

	// Rendering errors
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Error constructors with context
func NewDataError(source string, line int, reason string) error {
	if line > 0 {
		return fmt.Errorf("%w: %s line %d: %s", ErrData, source, line, reason)
	}
	return fmt.Errorf("%w: %s: %s", ErrData, source, reason)
}

func NewInvalidThresholdError(name string, value float64, want string) error {
	return fmt.Errorf("%w: %s threshold must be %s, got %v", ErrInvalidThreshold, name, want, value)
}

func NewInvalidRelationError(source, target, value string) error {
	return fmt.Errorf("%w %q for edge %s -> %s", ErrInvalidRelation, value, source, target)
}

func NewGeneNotFoundError(gene string) error {
	return fmt.Errorf("%w: %s", ErrGeneNotFound, gene)
}

func NewEdgeNotFoundError(source, target string) error {
	return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, source, target)
}

func NewRunNotFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrRunNotFound, id)
}

func NewUnsupportedFormatError(ext string) error {
	return fmt.Errorf("%w %q: graph image must be one of .pdf, .svg, .png, .jpg", ErrUnsupportedFormat, ext)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrData)
}

func IsInvalidThresholdError(err error) bool {
	return errors.Is(err, ErrInvalidThreshold)
}

func IsInvalidRelationError(err error) bool {
	return errors.Is(err, ErrInvalidRelation)
}

func IsUnsupportedFormatError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}
