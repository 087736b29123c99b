package domain

import "errors"

// Определение бизнес-ошибок
var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDivisionNotFound   = errors.New("division not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrImportFileNotFound = errors.New("import file not found")
	ErrImportRowNotFound  = errors.New("import row not found")
	ErrDuplicateLogin     = errors.New("employee with this login already exists")
	ErrLoginRequired      = errors.New("employee login is required")
)
