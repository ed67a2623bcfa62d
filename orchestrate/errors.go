package orchestrate

import "errors"

// ErrRoundTimeout is returned when a round exceeds its time budget. It is
// propagated like a generation failure but remains distinguishable for
// logging.
var ErrRoundTimeout = errors.New("round exceeded its time budget")
