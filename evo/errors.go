package evo

import "github.com/baldhumanity/neuroevo/evo/nn"

// Error values shared with the network package so callers can test a single
// sentinel with errors.Is regardless of which layer rejected the input.
var (
	ErrConfiguration = nn.ErrConfiguration
	ErrInputShape    = nn.ErrInputShape
	ErrShapeMismatch = nn.ErrShapeMismatch
)
