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

// Instr is a single decoded instruction. Iv and Sv are opaque immediates,
// Br is the optional branch operand and Sw is the jump table of a switch.
type Instr struct {
	Op OpCode
	Iv int64
	Sv string
	Br *Instr
	Sw []*Instr
}

func NewInstr(op OpCode) *Instr {
	return &Instr{Op: op}
}

func (self *Instr) iv(v int64) *Instr { self.Iv = v; return self }
func (self *Instr) sv(v string) *Instr { self.Sv = v; return self }
func (self *Instr) br(v *Instr) *Instr { self.Br = v; return self }
func (self *Instr) sw(v []*Instr) *Instr { self.Sw = v; return self }

func (self *Instr) IsNop() bool { return self.Op == OP_nop }
func (self *Instr) IsPop() bool { return self.Op == OP_pop }
func (self *Instr) IsSimpleLoad() bool { return _OpSimpleLoads[self.Op] }
func (self *Instr) IsBranch() bool { return self.Op.IsBranch() }
func (self *Instr) IsConditionalBranch() bool { return self.Op.IsConditionalBranch() }
func (self *Instr) IsSwitch() bool { return self.Op == OP_switch }
func (self *Instr) IsLeave() bool { return self.Op == OP_leave }
func (self *Instr) IsTerminal() bool { return self.Op.IsTerminal() }
func (self *Instr) FallsThrough() bool { return FallsThrough(self.Op) }
func (self *Instr) CanFlipCondition() bool { return self.Op.CanFlipCondition() }

// FlipCondition rewrites the instruction in place to test the negated
// condition. The branch operand is left untouched, so whoever owns the edges
// has to swap the meaning of "taken" and "not taken" as well.
func (self *Instr) FlipCondition() error {
	if !self.CanFlipCondition() {
		return OpCodeError{Op: self.Op, Reason: "condition cannot be flipped"}
	} else {
		self.Op = _OpInverse[self.Op]
		return nil
	}
}

// Clone returns a shallow copy of the instruction, operands are shared.
func (self *Instr) Clone() *Instr {
	ret := *self
	ret.Sw = append([]*Instr(nil), self.Sw...)
	return &ret
}

func (self *Instr) formatRefs(refs map[*Instr]string, p *Instr) string {
	if p == nil {
		return "<nil>"
	} else if ref, ok := refs[p]; ok {
		return ref
	} else {
		return fmt.Sprintf("%p", p)
	}
}

func (self *Instr) formatTable(refs map[*Instr]string) string {
	ret := make([]string, len(self.Sw))
	for i, p := range self.Sw {
		ret[i] = self.formatRefs(refs, p)
	}
	return "(" + strings.Join(ret, ", ") + ")"
}

// Disassemble formats the instruction, branch operands are resolved through
// refs when present.
func (self *Instr) Disassemble(refs map[*Instr]string) string {
	switch self.Op {
	case OP_ldc, OP_ldloc, OP_ldarg, OP_stloc, OP_starg:
		return fmt.Sprintf("%-11s%d", self.Op, self.Iv)
	case OP_ldstr:
		return fmt.Sprintf("%-11s%s", self.Op, strconv.Quote(self.Sv))
	case OP_call:
		return fmt.Sprintf("%-11s%s", self.Op, self.Sv)
	case OP_switch:
		return fmt.Sprintf("%-11s%s", self.Op, self.formatTable(refs))
	}

	/* branches with a possibly missing operand */
	if !self.Op.HasBranchOperand() {
		return self.Op.String()
	} else if self.Br == nil {
		return self.Op.String()
	} else {
		return fmt.Sprintf("%-11s%s", self.Op, self.formatRefs(refs, self.Br))
	}
}

func (self *Instr) String() string {
	return self.Disassemble(nil)
}
