// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import "errors"

// ErrUnknownNode is a RuntimeInvariantError: an event was popped for a
// node id that isn't in the registry. This should never fire — the
// registry is built once at topology construction and every event is
// addressed to an id drawn from it.
var ErrUnknownNode = errors.New("kernel: event addressed to unregistered node")
