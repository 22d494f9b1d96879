package config

import "errors"

// Config errors.
var (
	ErrInvalidConfig  = errors.New("config: invalid value")
	ErrNothingWatched = errors.New("config: no file to watch")
)
