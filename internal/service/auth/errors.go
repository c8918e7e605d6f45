package auth

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных данных регистрации
	ErrInvalidInput = errors.New("auth: invalid input data")

	// ErrEmailTaken возвращается, если email уже зарегистрирован
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidCredentials неверный email или пароль
	ErrInvalidCredentials = errors.New("auth: invalid email or password")

	// ErrUnauthenticated токен отсутствует, истек или отозван
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrAccountInactive учетная запись заблокирована или не активирована
	ErrAccountInactive = errors.New("auth: account is not active")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("auth: internal error")
)
