package application

import (
	"errors"

	"cryptorates-service/internal/domain"
)

var ErrNotFound = domain.ErrNotFound
var ErrConflict = errors.New("conflict")
var ErrUnauthenticated = errors.New("unauthenticated")
