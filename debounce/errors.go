package debounce

import "errors"

// ErrCallbackRequired is returned when New is called with a nil callback.
var ErrCallbackRequired = errors.New("debounce callback required")
