package splot

import "errors"

// Errors returned by the engine and its components.
var (
	// ErrNoDevice indicates that no rendering device could be obtained,
	// either because no backend is registered or because device
	// initialization failed. This is a hard failure: there is no way to
	// render without a device.
	ErrNoDevice = errors.New("splot: no rendering device available")

	// ErrEngineDisposed is returned when an operation is attempted on an
	// engine after Dispose.
	ErrEngineDisposed = errors.New("splot: engine disposed")

	// ErrInvalidDims indicates a point set with a dimension count other
	// than 2 or 3.
	ErrInvalidDims = errors.New("splot: point set dims must be 2 or 3")

	// ErrCoordsLength indicates a coordinate slice whose length is not a
	// multiple of the point dimension count.
	ErrCoordsLength = errors.New("splot: coords length not a multiple of dims")

	// ErrIndexMap indicates an index map that is shorter than the point
	// count or contains negative or duplicate sample indices.
	ErrIndexMap = errors.New("splot: invalid sample index map")

	// ErrShaderCompile indicates a shader failed to compile or link.
	// The wrapped error carries the compiler's diagnostic text. This is an
	// authoring error, not a runtime condition to recover from.
	ErrShaderCompile = errors.New("splot: shader compilation failed")
)
