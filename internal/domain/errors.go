package domain

import "errors"

var (
	// ErrNotFound indicates the requested record was not found.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart rejects an operation that needs at least one line item.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientCash rejects a checkout where the cash tendered does not
	// cover the total.
	ErrInsufficientCash = errors.New("cash given is less than total")

	// ErrNothingToFire indicates a kitchen fire with no unnotified items.
	ErrNothingToFire = errors.New("no new items to fire")
)
