package service

import "errors"

var (
	// ErrAuthenticationDenied covers every way a caller can fail to prove who
	// they are: unknown, expired, revoked or reused refresh tokens and
	// inactive accounts. It is deliberately one error so the HTTP layer
	// cannot leak which check failed.
	ErrAuthenticationDenied = errors.New("authentication_denied")

	// ErrAuthorizationDenied means the caller is authenticated but lacks the
	// role or permission for the operation.
	ErrAuthorizationDenied = errors.New("authorization_denied")

	// ErrMissingRole is a configuration error: a role the system expects to
	// exist (the provisioning default, or one named in an admin request) is
	// absent from the store. During provisioning it aborts the transaction so
	// no partial account persists.
	ErrMissingRole = errors.New("required role missing")
)
