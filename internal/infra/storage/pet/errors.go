package pet

import "errors"

var (
	// ErrPetNotFound питомец не найден или деактивирован
	ErrPetNotFound = errors.New("pet.repository: pet not found")

	ErrBuildQuery = errors.New("pet.repository: failed to build query")
	ErrExecQuery  = errors.New("pet.repository: failed to execute query")
	ErrScanRow    = errors.New("pet.repository: failed to scan row")
	ErrEncode     = errors.New("pet.repository: failed to encode json column")
)
