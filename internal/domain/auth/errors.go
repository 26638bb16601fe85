package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrEmployeeClaimMissing   = errors.New("token carries no employee")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrInvalidDeviceKey       = errors.New("invalid device key")
)
