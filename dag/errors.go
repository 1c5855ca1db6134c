// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package dag

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by graph operations.
var (
	ErrCycle         = errors.New("cycle detected")
	ErrDuplicateName = errors.New("duplicate name")
	ErrHasChildren   = errors.New("node has dependent nodes")
	ErrNotSettable   = errors.New("node value can not be set")
	ErrUnknownNode   = errors.New("unknown node")
)

// A CycleError is returned when adding a dependency
// would create a cycle in the graph.
type CycleError struct {
	Child  NodeID
	Parent NodeID

	// Path is the chain of node names
	// that would be closed by the new dependency.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

func unknown(id NodeID) error {
	return fmt.Errorf("%w: %d", ErrUnknownNode, id)
}
