package nn

import "errors"

var (
	// ErrConfiguration is returned for invalid construction parameters such as a
	// shape with fewer than two layers.
	ErrConfiguration = errors.New("configuration error")

	// ErrInputShape is returned by Guess when the input length does not match
	// the size of the first layer.
	ErrInputShape = errors.New("input shape mismatch")

	// ErrShapeMismatch reports a broken dimension invariant: two networks of
	// different shape combined, or a matrix that disagrees with the shape.
	ErrShapeMismatch = errors.New("network shape invariant violated")
)
