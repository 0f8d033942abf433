package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrUnknownAction      = errors.New("unknown user action")
	ErrPersistence        = errors.New("persistence error")
	ErrNotFound           = errors.New("user economy not found")
	ErrVersionConflict    = errors.New("user economy version conflict")
	ErrMaxLevel           = errors.New("upgrade already at max level")
)

// InsufficientFundsError reports the exact cost the user could not afford.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds (has %d, needs %d)", e.Available, e.Required)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

type InsufficientEnergyError struct {
	Required  int
	Available int
}

func (e *InsufficientEnergyError) Error() string {
	return fmt.Sprintf("insufficient energy (has %d, needs %d)", e.Available, e.Required)
}

func (e *InsufficientEnergyError) Is(target error) bool {
	return target == ErrInsufficientEnergy
}

// UnknownActionError names the unrecognized action, item, upgrade or achievement.
type UnknownActionError struct {
	Kind string
	ID   string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// PersistenceError wraps a load or store failure. It is the only retryable error.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s user economy: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the caller may retry the operation as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}
