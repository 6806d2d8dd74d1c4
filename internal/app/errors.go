package service

import "errors"

// Sentinel kinds for view errors.
var (
	ErrUnknownPage = errors.New("unknown page")
)
