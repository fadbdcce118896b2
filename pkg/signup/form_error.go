package signup

import (
	"fmt"

	"github.com/vango-dev/formbind/internal/config"
	fberrors "github.com/vango-dev/formbind/internal/errors"
)

// Form errors. Match them with errors.Is; copies carrying extra detail or a
// wrapped cause still match.
var (
	// ErrInvalidEmail reports an address without the required suffix.
	ErrInvalidEmail = fberrors.New("F001")

	// ErrMismatchEmail reports a confirmation that differs from the address.
	ErrMismatchEmail = fberrors.New("F002")

	// ErrUsernameUnavailable reports a taken username, or a username
	// service that could not answer.
	ErrUsernameUnavailable = fberrors.New("F003")
)

// invalidEmailFor returns ErrInvalidEmail with its reason naming suffix.
func invalidEmailFor(suffix string) *fberrors.Error {
	if suffix == config.DefaultRequiredSuffix {
		return ErrInvalidEmail
	}
	e := *ErrInvalidEmail
	e.Message = fmt.Sprintf("The address must end with `%s`.", suffix)
	return &e
}
