package geodash

import "errors"

var (
	ErrPOINotFound      = errors.New("poi not found")
	ErrInvalidPOI       = errors.New("poi must have an id and positive points")
	ErrInvalidTerritory = errors.New("territory id is required")
	ErrInvalidUsername  = errors.New("username must be 1-32 characters")
	ErrInvalidLocation  = errors.New("location out of range")

	ErrGameNotFound  = errors.New("game not found")
	ErrNegativeScore = errors.New("score must not be negative")
	ErrScoreOverflow = errors.New("score would overflow the total")
)
