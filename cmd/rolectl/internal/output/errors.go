package output

import (
	"context"
	"errors"

	goRoles "github.com/MrEthical07/goRoles"
)

// Exit codes returned by rolectl.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitAuthError   = 3
	ExitNotFound    = 4
	ExitServerError = 5
	ExitConfigError = 6
	ExitInterrupted = 130
)

// ConfigError marks errors raised while loading configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps err onto a process exit code.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, goRoles.ErrUnauthorized),
		errors.Is(err, goRoles.ErrForbidden),
		errors.Is(err, goRoles.ErrNoCurrentRole):
		return ExitAuthError
	case errors.Is(err, goRoles.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, goRoles.ErrServer):
		return ExitServerError
	case errors.Is(err, goRoles.ErrBadRequest), errors.Is(err, goRoles.ErrEmptyID):
		return ExitUsageError
	default:
		return ExitGeneral
	}
}

// Hint returns a suggestion for err, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, goRoles.ErrNoCurrentRole), errors.Is(err, goRoles.ErrUnauthorized):
		return "sign in with 'rolectl login'; set redis.addr to keep the session between commands"
	case errors.Is(err, goRoles.ErrForbidden):
		return "the signed-in role lacks access; sign in as an Admin"
	default:
		return ""
	}
}
