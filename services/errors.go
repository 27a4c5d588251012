package services

import "errors"

var (
	// ErrValidation marks a request rejected for missing required fields
	ErrValidation = errors.New("validation failed")

	// ErrFileRead marks a catalogue file that could not be read or parsed
	ErrFileRead = errors.New("catalogue file read failed")
)
