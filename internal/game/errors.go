package game

import "errors"

// Business errors. Callers dispatch on these with errors.Is; none of them
// leaves pet state modified.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrItemNotFound      = errors.New("item not found")
	ErrItemLocked        = errors.New("item locked")
	ErrItemNotOwned      = errors.New("item not owned")
	ErrPetIsDead         = errors.New("pet is dead")
	ErrPetMustBeAlive    = errors.New("pet must be alive")
	ErrPetAlreadyAlive   = errors.New("pet is already alive")
	ErrCannotEvolve      = errors.New("pet cannot evolve yet")
	ErrEmptyName         = errors.New("name must not be empty")
)
