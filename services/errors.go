package services

import "errors"

// Shared service errors, mapped to HTTP statuses in the handlers package.
var (
	ErrPlayoffNotFound = errors.New("playoff not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrSlotNotFound    = errors.New("slot not found")

	ErrSlotBracketMismatch  = errors.New("slot does not belong to the given bracket")
	ErrInvalidFormat        = errors.New("invalid match format")
	ErrMatchAlreadyComplete = errors.New("match is already completed")
	ErrPlayoffNameRequired  = errors.New("playoff name is required")

	// ErrVersionConflict surfaces a lost optimistic-lock race: another admin
	// saved the aggregate between this operation's load and save.
	ErrVersionConflict = errors.New("playoff was modified concurrently, reload and retry")

	// ErrCorruptTopology wraps validation failures on load. Nothing is
	// advanced against an aggregate that fails the structural check.
	ErrCorruptTopology = errors.New("playoff topology is corrupt")
)
