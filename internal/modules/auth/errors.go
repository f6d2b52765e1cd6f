package auth

import "petcare/internal/pkg/apperr"

var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")
