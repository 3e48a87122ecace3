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

type OpCode uint8

const (
	OP_nop        OpCode = iota // no operation
	OP_pop                      // pop a value
	OP_dup                      // duplicate the top of stack
	OP_ldc                      // push Iv
	OP_ldnull                   // push null
	OP_ldstr                    // push Sv
	OP_ldloc                    // push local[Iv]
	OP_ldarg                    // push arg[Iv]
	OP_stloc                    // pop -> local[Iv]
	OP_starg                    // pop -> arg[Iv]
	OP_add                      // a + b
	OP_sub                      // a - b
	OP_mul                      // a * b
	OP_div                      // a / b
	OP_ceq                      // a == b
	OP_cgt                      // a > b
	OP_clt                      // a < b
	OP_call                     // call Sv
	OP_br                       // Br -> PC
	OP_brtrue                   // if (v != 0) Br -> PC
	OP_brfalse                  // if (v == 0) Br -> PC
	OP_beq                      // if (a == b) Br -> PC
	OP_bne                      // if (a != b) Br -> PC
	OP_blt                      // if (a <  b) Br -> PC
	OP_bge                      // if (a >= b) Br -> PC
	OP_bgt                      // if (a >  b) Br -> PC
	OP_ble                      // if (a <= b) Br -> PC
	OP_switch                   // if (u(v) < len(Sw)) Sw[v] -> PC
	OP_leave                    // exit protected region, Br -> PC
	OP_endfinally               // end of finally handler
	OP_ret                      // return
	OP_throw                    // throw the top of stack
)

var _OpNames = [256]string{
	OP_nop:        "nop",
	OP_pop:        "pop",
	OP_dup:        "dup",
	OP_ldc:        "ldc",
	OP_ldnull:     "ldnull",
	OP_ldstr:      "ldstr",
	OP_ldloc:      "ldloc",
	OP_ldarg:      "ldarg",
	OP_stloc:      "stloc",
	OP_starg:      "starg",
	OP_add:        "add",
	OP_sub:        "sub",
	OP_mul:        "mul",
	OP_div:        "div",
	OP_ceq:        "ceq",
	OP_cgt:        "cgt",
	OP_clt:        "clt",
	OP_call:       "call",
	OP_br:         "br",
	OP_brtrue:     "brtrue",
	OP_brfalse:    "brfalse",
	OP_beq:        "beq",
	OP_bne:        "bne",
	OP_blt:        "blt",
	OP_bge:        "bge",
	OP_bgt:        "bgt",
	OP_ble:        "ble",
	OP_switch:     "switch",
	OP_leave:      "leave",
	OP_endfinally: "endfinally",
	OP_ret:        "ret",
	OP_throw:      "throw",
}

var _OpCodes = func() map[string]OpCode {
	ret := make(map[string]OpCode, len(_OpNames))
	for i, name := range _OpNames {
		if name != "" {
			ret[name] = OpCode(i)
		}
	}
	return ret
}()

/* opcodes that carry a branch operand */
var _OpBranches = [256]bool{
	OP_br:      true,
	OP_brtrue:  true,
	OP_brfalse: true,
	OP_beq:     true,
	OP_bne:     true,
	OP_blt:     true,
	OP_bge:     true,
	OP_bgt:     true,
	OP_ble:     true,
	OP_switch:  true,
	OP_leave:   true,
}

var _OpConditions = [256]bool{
	OP_brtrue:  true,
	OP_brfalse: true,
	OP_beq:     true,
	OP_bne:     true,
	OP_blt:     true,
	OP_bge:     true,
	OP_bgt:     true,
	OP_ble:     true,
}

var _OpTerminals = [256]bool{
	OP_endfinally: true,
	OP_ret:        true,
	OP_throw:      true,
}

var _OpSimpleLoads = [256]bool{
	OP_ldc:    true,
	OP_ldnull: true,
	OP_ldstr:  true,
	OP_ldloc:  true,
	OP_ldarg:  true,
}

/* every conditional branch maps to the test of the opposite polarity */
var _OpInverse = [256]OpCode{
	OP_brtrue:  OP_brfalse,
	OP_brfalse: OP_brtrue,
	OP_beq:     OP_bne,
	OP_bne:     OP_beq,
	OP_blt:     OP_bge,
	OP_bge:     OP_blt,
	OP_bgt:     OP_ble,
	OP_ble:     OP_bgt,
}

func (self OpCode) String() string {
	if _OpNames[self] != "" {
		return _OpNames[self]
	} else {
		return fmt.Sprintf("OpCode(%d)", self)
	}
}

// LookupOpCode finds the OpCode by its mnemonic.
func LookupOpCode(name string) (OpCode, bool) {
	op, ok := _OpCodes[name]
	return op, ok
}

// FallsThrough reports whether control may continue with the next
// instruction after an instruction of this OpCode. It is a property of the
// OpCode alone. Conditional branches and switches fall through when no
// branch is taken; unconditional branches, scope exits and terminals never
// do.
func FallsThrough(op OpCode) bool {
	return op != OP_br && op != OP_leave && !_OpTerminals[op]
}

func (self OpCode) IsBranch() bool { return self == OP_br }
func (self OpCode) IsConditionalBranch() bool { return _OpConditions[self] }
func (self OpCode) IsTerminal() bool { return _OpTerminals[self] }
func (self OpCode) HasBranchOperand() bool { return _OpBranches[self] }
func (self OpCode) CanFlipCondition() bool { return _OpInverse[self] != OP_nop }
