package repo

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrCategoryNotFound     = errors.New("waste category not found")
	ErrMaterialNotFound     = errors.New("material not found")
	ErrCollectionNotFound   = errors.New("collection not found")
	ErrItemNotFound         = errors.New("collection item not found")
	ErrFacilityNotFound     = errors.New("recycling facility not found")
	ErrDropoffNotFound      = errors.New("dropoff point not found")
	ErrTokenNotFound        = errors.New("token not found")

	// ErrDuplicatedValueUnique covers unique constraint violations (email, code).
	ErrDuplicatedValueUnique = errors.New("duplicated value violates unique constraint")

	// ErrInvalidTransition is returned when a conditional status update matches no row.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMaterialInUse is returned when deleting a material referenced by collection items.
	ErrMaterialInUse = errors.New("material is referenced by collection items")
)
