package server

import "errors"

var (
	errNoAddress = errors.New("no http address is configured")
)
