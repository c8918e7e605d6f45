package user

import "errors"

var (
	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("user.repository: user not found")

	// ErrEmailTaken email уже зарегистрирован
	ErrEmailTaken = errors.New("user.repository: email already registered")

	ErrBuildQuery = errors.New("user.repository: failed to build query")
	ErrExecQuery  = errors.New("user.repository: failed to execute query")
	ErrScanRow    = errors.New("user.repository: failed to scan row")
)
