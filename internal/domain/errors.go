package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyDataset is returned when the observation table has no rows
	ErrEmptyDataset = errors.New("observation dataset is empty")

	// ErrStoreNotFound is returned when a store id is absent from the directory
	ErrStoreNotFound = errors.New("store not found in directory")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrGeocodeFailure is returned when the geocoding lookup fails
	ErrGeocodeFailure = errors.New("geocoding request failed")

	// ErrOverpassFailure is returned when the Overpass store lookup fails
	ErrOverpassFailure = errors.New("overpass API request failed")

	// ErrEstimateFailure is returned when the LLM price estimation fails
	ErrEstimateFailure = errors.New("price estimation request failed")

	// ErrNoSnapshot is returned when no dataset snapshot has been loaded yet
	ErrNoSnapshot = errors.New("no dataset snapshot loaded")
)

// SchemaError reports an input table that is missing required columns. The
// column set is a contract with the upstream collectors; a malformed table
// aborts the whole computation instead of proceeding with partial data.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q is missing required columns: %s",
		e.Table, strings.Join(e.Missing, ", "))
}

// NewSchemaError builds a SchemaError for the given table and columns.
func NewSchemaError(table string, missing ...string) *SchemaError {
	return &SchemaError{Table: table, Missing: missing}
}
