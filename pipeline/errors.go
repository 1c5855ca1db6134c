// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline

import (
	"errors"
	"fmt"
)

// ErrStructure is the error returned
// by invalid modifications of the graph structure,
// or when the graph is executed
// with an invalid structure.
var ErrStructure = errors.New("invalid pipeline structure")

// A StructureError is an invalid operation
// on the structure of a graph.
type StructureError struct {
	Op   string
	Node NodeID
	Msg  string
}

func (e *StructureError) Error() string {
	if e.Node == None {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: node %d: %s", e.Op, e.Node, e.Msg)
}

// Unwrap returns ErrStructure.
func (e *StructureError) Unwrap() error {
	return ErrStructure
}

func structErr(op string, id NodeID, format string, a ...any) error {
	return &StructureError{
		Op:   op,
		Node: id,
		Msg:  fmt.Sprintf(format, a...),
	}
}

// An ExecError is the failure of the tool
// of a node during execution.
type ExecError struct {
	Node NodeID
	Tool string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("node %d [%s]: %v", e.Node, e.Tool, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
