package cli

import (
	"errors"
	"fmt"

	"catalog-cli/internal/api"
	"catalog-cli/internal/controller"
)

type invalidArgError struct {
	what   string
	reason string
}

func (e invalidArgError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.what, e.reason)
}

func errInvalidArg(what, reason string) error {
	return invalidArgError{what: what, reason: reason}
}

// reportedError wraps an error writeErr already printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

var errDeleteNotConfirmed = errors.New("delete not confirmed (pass --yes to skip the prompt)")

// userMessage maps API failures to the same wording the TUI shows.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *api.ServerError
	if api.IsAuth(err) || api.IsTransport(err) || errors.As(err, &se) {
		return controller.StatusMessage(err)
	}
	return err.Error()
}
