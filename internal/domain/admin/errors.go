package admin

import "errors"

// ErrResetNotConfirmed is returned when a reset request lacks the confirmation word.
var ErrResetNotConfirmed = errors.New(`reset requires confirm to be "RESET"`)
