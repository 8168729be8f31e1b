package bind

import "github.com/ardnew/vex/lang"

// Errors returned while loading binding sources. Failures while resolving a
// binding during evaluation are additionally wrapped in [lang.ErrBinding].
var (
	ErrDocument = lang.NewError("invalid binding document")
	ErrScript   = lang.NewError("script error")
	ErrValue    = lang.NewError("unsupported value")
)
