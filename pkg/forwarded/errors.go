package forwarded

import "errors"

// ErrInvalidProxy is returned when a trusted proxy entry is neither an IP address nor a CIDR range.
var ErrInvalidProxy = errors.New("forwarded: invalid trusted proxy")
