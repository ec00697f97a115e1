package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidRole      = errors.New("role must be EMPLOYEE or ADMIN")
)
