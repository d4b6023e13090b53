package surveillance

import "errors"

// ErrCullingMode is returned for an unknown culling mode name.
var ErrCullingMode = errors.New("unknown culling mode")
