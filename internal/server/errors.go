package server

import "errors"

// errNothingToRun is returned when neither the debug API nor any worker is
// configured.
var errNothingToRun = errors.New("nothing to run: no debug API address and no workers")
