package services

import "errors"

var (
	// ErrMissingColumn is returned when a column the stage depends on is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyTable is returned when a stage receives no rows to work on.
	ErrEmptyTable = errors.New("empty table")
	// ErrNotEnoughData is returned when a statistic cannot be computed from the sample.
	ErrNotEnoughData = errors.New("not enough data")
)
