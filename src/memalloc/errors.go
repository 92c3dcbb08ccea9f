package memalloc

import "errors"

// ErrInvalidRequest is returned for a malformed request: a zero size,
// a multiplicative overflow in Callocate, or an additive header-size
// overflow in Allocate. No state is changed before it is returned.
var ErrInvalidRequest = errors.New("memalloc: invalid request")

// ErrPoolExhausted is returned when the backing region cannot be
// acquired, or when no free block fits the request and the bump
// frontier has too little room left. No state is changed before it is
// returned.
var ErrPoolExhausted = errors.New("memalloc: pool exhausted")
