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
	"strconv"
	"strings"
)

// ProgramBuilder assembles a Program with symbolic labels. Labels may be
// referenced before they are defined.
type ProgramBuilder struct {
	i     int
	buf   []*Instr
	refs  map[string]*Instr
	pends map[string][]**Instr
	marks map[*Instr]bool
}

func CreateProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{
		refs:  make(map[string]*Instr),
		pends: make(map[string][]**Instr),
		marks: make(map[*Instr]bool),
	}
}

func (self *ProgramBuilder) add(ins *Instr) *Instr {
	self.buf = append(self.buf, ins)
	return ins
}

func (self *ProgramBuilder) expand(to string) string {
	if strings.Contains(to, "{n}") {
		return strings.ReplaceAll(to, "{n}", strconv.Itoa(self.i))
	} else {
		return to
	}
}

func (self *ProgramBuilder) link(slot **Instr, to string) {
	if lb, ok := self.refs[to]; ok {
		*slot = lb
	} else {
		self.pends[to] = append(self.pends[to], slot)
	}
}

func (self *ProgramBuilder) jmp(p *Instr, to string) *Instr {
	self.link(&p.Br, self.expand(to))
	return self.add(p)
}

// Next advances the counter substituted for "{n}" in label names.
func (self *ProgramBuilder) Next() {
	self.i++
}

func (self *ProgramBuilder) Label(to string) {
	var p *Instr
	var v []**Instr

	/* placeholder substitution */
	to = self.expand(to)

	/* check for duplications */
	if _, ok := self.refs[to]; ok {
		panic("label " + to + " has already been linked")
	}

	/* the label is anchored on a marker NOP which is dropped by Build */
	p = self.add(newMark())
	v = self.pends[to]
	self.marks[p] = true

	/* patch all the pending jumps */
	for _, q := range v {
		*q = p
	}

	/* mark the label as resolved */
	self.refs[to] = p
	delete(self.pends, to)
}

func (self *ProgramBuilder) resolve(pc map[*Instr]int, p *Instr) *Instr {
	for i := pc[p]; self.marks[p]; i++ {
		if i+1 >= len(self.buf) {
			return nil
		}
		p = self.buf[i+1]
	}
	return p
}

// Build resolves every label and returns the Program. Labels anchored past
// the last instruction cannot be branched to.
func (self *ProgramBuilder) Build() Program {
	ret := make(Program, 0, len(self.buf))
	pc := make(map[*Instr]int, len(self.buf))

	/* check for unresolved labels */
	for key := range self.pends {
		panic("labels are not fully resolved: " + key)
	}

	/* index every instruction */
	for i, p := range self.buf {
		pc[p] = i
	}

	/* adjust jumps to point at actual instructions */
	for _, p := range self.buf {
		if p.Br != nil {
			if p.Br = self.resolve(pc, p.Br); p.Br == nil {
				panic("branch target is past the end of program")
			}
		}
		for i, sw := range p.Sw {
			if sw != nil {
				if p.Sw[i] = self.resolve(pc, sw); p.Sw[i] == nil {
					panic("switch target is past the end of program")
				}
			}
		}
	}

	/* drop all the label markers */
	for _, p := range self.buf {
		if !self.marks[p] {
			ret = append(ret, p)
		}
	}
	return ret
}

func newMark() *Instr {
	return NewInstr(OP_nop)
}

func (self *ProgramBuilder) NOP() *Instr {
	return self.add(NewInstr(OP_nop))
}

func (self *ProgramBuilder) POP() *Instr {
	return self.add(NewInstr(OP_pop))
}

func (self *ProgramBuilder) DUP() *Instr {
	return self.add(NewInstr(OP_dup))
}

func (self *ProgramBuilder) LDC(v int64) *Instr {
	return self.add(NewInstr(OP_ldc).iv(v))
}

func (self *ProgramBuilder) LDNULL() *Instr {
	return self.add(NewInstr(OP_ldnull))
}

func (self *ProgramBuilder) LDSTR(v string) *Instr {
	return self.add(NewInstr(OP_ldstr).sv(v))
}

func (self *ProgramBuilder) LDLOC(id int) *Instr {
	return self.add(NewInstr(OP_ldloc).iv(int64(id)))
}

func (self *ProgramBuilder) LDARG(id int) *Instr {
	return self.add(NewInstr(OP_ldarg).iv(int64(id)))
}

func (self *ProgramBuilder) STLOC(id int) *Instr {
	return self.add(NewInstr(OP_stloc).iv(int64(id)))
}

func (self *ProgramBuilder) STARG(id int) *Instr {
	return self.add(NewInstr(OP_starg).iv(int64(id)))
}

// Emit appends an instruction that takes no operand, or whose immediate is
// given by iv.
func (self *ProgramBuilder) Emit(op OpCode, iv int64) *Instr {
	return self.add(NewInstr(op).iv(iv))
}

func (self *ProgramBuilder) CALL(fn string) *Instr {
	return self.add(NewInstr(OP_call).sv(fn))
}

// Branch appends any instruction carrying a single branch operand.
func (self *ProgramBuilder) Branch(op OpCode, to string) *Instr {
	if !op.HasBranchOperand() || op == OP_switch {
		panic("not a branch instruction: " + op.String())
	} else {
		return self.jmp(NewInstr(op), to)
	}
}

func (self *ProgramBuilder) BR(to string) *Instr { return self.Branch(OP_br, to) }
func (self *ProgramBuilder) BRTRUE(to string) *Instr { return self.Branch(OP_brtrue, to) }
func (self *ProgramBuilder) BRFALSE(to string) *Instr { return self.Branch(OP_brfalse, to) }
func (self *ProgramBuilder) BEQ(to string) *Instr { return self.Branch(OP_beq, to) }
func (self *ProgramBuilder) BNE(to string) *Instr { return self.Branch(OP_bne, to) }
func (self *ProgramBuilder) BLT(to string) *Instr { return self.Branch(OP_blt, to) }
func (self *ProgramBuilder) BGE(to string) *Instr { return self.Branch(OP_bge, to) }
func (self *ProgramBuilder) LEAVE(to string) *Instr { return self.Branch(OP_leave, to) }

func (self *ProgramBuilder) SWITCH(tab []string) *Instr {
	p := NewInstr(OP_switch).sw(make([]*Instr, len(tab)))

	/* link every case */
	for i, to := range tab {
		self.link(&p.Sw[i], self.expand(to))
	}

	/* add to instruction buffer */
	return self.add(p)
}

func (self *ProgramBuilder) RET() *Instr {
	return self.add(NewInstr(OP_ret))
}

func (self *ProgramBuilder) THROW() *Instr {
	return self.add(NewInstr(OP_throw))
}

func (self *ProgramBuilder) ENDFINALLY() *Instr {
	return self.add(NewInstr(OP_endfinally))
}
