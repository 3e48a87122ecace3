/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package blocks

import (
	"fmt"
)

// ArgumentError occures when an operation is called with an invalid argument,
// the block is left untouched.
type ArgumentError struct {
	Op     string
	Reason string
}

func (self *ArgumentError) Error() string {
	return fmt.Sprintf("ArgumentError(%s): %s", self.Op, self.Reason)
}

// StateError occures when the edges of a block do not have the shape an
// operation requires, the block is left untouched.
type StateError struct {
	Op     string
	Block  int
	Reason string
}

func (self *StateError) Error() string {
	return fmt.Sprintf("StateError(%s) at bb_%d: %s", self.Op, self.Block, self.Reason)
}

// InvariantError indicates a corrupted graph. Operations that discover one
// panic with it, since there is nothing the caller could retry.
type InvariantError struct {
	Op     string
	Block  int
	Reason string
}

func (self *InvariantError) Error() string {
	return fmt.Sprintf("InvariantError(%s) at bb_%d: %s", self.Op, self.Block, self.Reason)
}

func eargument(op string, reason string) *ArgumentError {
	return &ArgumentError{
		Op:     op,
		Reason: reason,
	}
}

func estate(op string, bb *Block, reason string) *StateError {
	return &StateError{
		Op:     op,
		Block:  bb.Id,
		Reason: reason,
	}
}

func einvariant(op string, bb *Block, reason string) *InvariantError {
	return &InvariantError{
		Op:     op,
		Block:  bb.Id,
		Reason: reason,
	}
}
