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

package il

import (
	"fmt"
)

// OpCodeError occures when an operation is not defined for an OpCode.
type OpCodeError struct {
	Op     OpCode
	Reason string
}

func (self OpCodeError) Error() string {
	return fmt.Sprintf("OpCodeError(%s): %s", self.Op, self.Reason)
}

// SyntaxError occures when failed to parse the textual assembly.
type SyntaxError struct {
	Line   int
	Src    string
	Reason string
}

func (self SyntaxError) Error() string {
	return fmt.Sprintf("Syntax error at line %d: %s", self.Line, self.Reason)
}

func esyntax(line int, src string, reason string) SyntaxError {
	return SyntaxError{
		Line:   line,
		Src:    src,
		Reason: reason,
	}
}
