package core

import "errors"

// ErrUnknownObjectKind is returned by an exhaustive type switch's default
// branch when a SchemaObject implementation doesn't match any of the 14
// known kinds. Since the interface is sealed to this package, reaching
// this path in practice means a new kind was added here without updating
// every switch downstream -- a bug, not a dialect input problem.
var ErrUnknownObjectKind = errors.New("core: unknown schema object kind")
