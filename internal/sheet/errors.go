package sheet

import "errors"

// Sheet errors.
var (
	// ErrInvalidRef indicates a malformed or out-of-bounds cell reference.
	ErrInvalidRef = errors.New("sheet: invalid cell reference")
	// ErrInvalidRange indicates a malformed range or one whose top-left
	// corner is below or right of its bottom-right corner.
	ErrInvalidRange = errors.New("sheet: invalid range")
	// ErrBadDimensions indicates invalid grid dimensions at construction.
	ErrBadDimensions = errors.New("sheet: invalid grid dimensions")
)
