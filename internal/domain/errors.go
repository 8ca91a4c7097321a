package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrSameAccount         = errors.New("source and destination must be different accounts")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidBalance      = errors.New("invalid initial balance")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransferFailed      = errors.New("transfer could not be committed")
	ErrBalanceConflict     = errors.New("balance update conflict")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidRequest      = errors.New("invalid request")
)
