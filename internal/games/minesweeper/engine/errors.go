package engine

import "errors"

// Configuration errors returned by board construction.
var (
	ErrInvalidDimensions = errors.New("engine: width and height must be positive")
	ErrInvalidMineCount  = errors.New("engine: mine count must be at least 1 and less than the cell count")
	ErrInvalidLayout     = errors.New("engine: invalid mine layout")
)
