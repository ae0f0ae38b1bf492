package repositories

import "errors"

// Sentinel errors surfaced to controllers so they can pick a status code
// without leaking SQL detail across the API boundary.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("record not found")
	ErrAlreadyConverted  = errors.New("challan not found or already converted to bill")
	ErrChallanMismatch   = errors.New("bill items do not match the challan")
	ErrDuplicateBillNo   = errors.New("bill number already exists")
	ErrGodownExists      = errors.New("godown already exists")
	ErrProductExists     = errors.New("product already exists for this brand")
	ErrBrandExists       = errors.New("brand already exists")
)
