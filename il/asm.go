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
	"strconv"
	"strings"
)

type _Assembler struct {
	ln  int
	src string
	pb  *ProgramBuilder
}

// Assemble parses the textual form of a program. Every line holds either a
// label definition ("name:"), an instruction ("mnemonic [operand]"), or
// nothing. Comments start with ';' outside of string literals.
func Assemble(src string) (p Program, err error) {
	asm := &_Assembler{pb: CreateProgramBuilder()}
	defer asm.rescue(&err)

	/* parse every line */
	for i, line := range strings.Split(src, "\n") {
		asm.ln = i + 1
		asm.src = line
		if err = asm.line(stripComment(line)); err != nil {
			return nil, err
		}
	}

	/* link the program */
	asm.ln = 0
	asm.src = ""
	return asm.pb.Build(), nil
}

func (self *_Assembler) rescue(ep *error) {
	if val := recover(); val != nil {
		if msg, ok := val.(string); ok {
			*ep = esyntax(self.ln, self.src, msg)
		} else {
			panic(val)
		}
	}
}

func (self *_Assembler) error(reason string) error {
	return esyntax(self.ln, self.src, reason)
}

func (self *_Assembler) line(s string) error {
	var op OpCode
	var ok bool
	var arg string

	/* skip empty lines and the end marker */
	if s = strings.TrimSpace(s); s == "" || s == "end" {
		return nil
	}

	/* label definitions */
	if strings.HasSuffix(s, ":") {
		if name := strings.TrimSpace(s[:len(s)-1]); !isIdent(name) {
			return self.error(fmt.Sprintf("invalid label name: %q", name))
		} else {
			self.pb.Label(name)
			return nil
		}
	}

	/* split the mnemonic and the operand */
	if i := strings.IndexAny(s, " \t"); i < 0 {
		op, ok = LookupOpCode(s)
	} else {
		op, ok = LookupOpCode(s[:i])
		arg = strings.TrimSpace(s[i+1:])
	}

	/* check for unknown instructions */
	if !ok {
		return self.error(fmt.Sprintf("unknown instruction: %q", s))
	}

	/* parse the operand */
	switch op {
	case OP_ldc, OP_ldloc, OP_ldarg, OP_stloc, OP_starg:
		return self.integer(op, arg)
	case OP_ldstr:
		return self.str(arg)
	case OP_call:
		return self.call(arg)
	case OP_switch:
		return self.table(arg)
	case OP_br:
		return self.branch(op, arg, true)
	}

	/* other branches always have a target */
	if op.HasBranchOperand() {
		return self.branch(op, arg, false)
	} else if arg != "" {
		return self.error(fmt.Sprintf("%s takes no operand", op))
	} else {
		self.pb.Emit(op, 0)
		return nil
	}
}

func (self *_Assembler) integer(op OpCode, arg string) error {
	if v, err := strconv.ParseInt(arg, 0, 64); err != nil {
		return self.error(fmt.Sprintf("%s expects an integer operand", op))
	} else {
		self.pb.Emit(op, v)
		return nil
	}
}

func (self *_Assembler) str(arg string) error {
	if v, err := strconv.Unquote(arg); err != nil {
		return self.error("ldstr expects a quoted string")
	} else {
		self.pb.LDSTR(v)
		return nil
	}
}

func (self *_Assembler) call(arg string) error {
	if arg == "" {
		return self.error("call expects a function name")
	} else {
		self.pb.CALL(arg)
		return nil
	}
}

func (self *_Assembler) branch(op OpCode, arg string, optional bool) error {
	if arg == "" && optional {
		self.pb.Emit(op, 0)
		return nil
	} else if !isIdent(arg) {
		return self.error(fmt.Sprintf("%s expects a label", op))
	} else {
		self.pb.Branch(op, arg)
		return nil
	}
}

func (self *_Assembler) table(arg string) error {
	var tab []string

	/* the table may be parenthesized */
	arg = strings.TrimPrefix(arg, "(")
	arg = strings.TrimSuffix(arg, ")")

	/* parse every case */
	for _, v := range strings.Split(arg, ",") {
		if v = strings.TrimSpace(v); !isIdent(v) {
			return self.error(fmt.Sprintf("invalid switch target: %q", v))
		} else {
			tab = append(tab, v)
		}
	}

	/* add the switch instruction */
	self.pb.SWITCH(tab)
	return nil
}

func stripComment(s string) string {
	quoted := false
	escaped := false

	/* find the first ';' outside of a string literal */
	for i, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ';' && !quoted:
			return s[:i]
		}
	}
	return s
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '.' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
