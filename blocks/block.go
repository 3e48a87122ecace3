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
	"sort"
	"strings"

	"github.com/cloudwego/cflow/il"
)

// Block is a basic block of a method body.
//
// A Block has at most one fall-through successor and an optional list of
// explicit targets reached through the branch or switch operand of its last
// instruction. Every edge is mirrored by exactly one entry in the sources
// list of its successor. The list of explicit targets is either nil or
// non-empty.
type Block struct {
	Id          int
	ins         []*il.Instr
	parent      *Graph
	fallThrough *Block
	targets     []*Block
	sources     []*Block
}

func (self *Block) Parent() *Graph {
	return self.parent
}

func (self *Block) Len() int {
	return len(self.ins)
}

func (self *Block) IsEmpty() bool {
	return len(self.ins) == 0
}

// Instrs returns a copy of the instruction sequence.
func (self *Block) Instrs() []*il.Instr {
	return append([]*il.Instr(nil), self.ins...)
}

// Instr returns the instruction at index i.
func (self *Block) Instr(i int) *il.Instr {
	return self.ins[i]
}

// IsNopBlock checks if the block contains nothing but NOPs.
func (self *Block) IsNopBlock() bool {
	for _, v := range self.ins {
		if !v.IsNop() {
			return false
		}
	}
	return true
}

// EnsureNonEmpty inserts a single NOP into a structurally empty block, so
// that the first and last instructions are always defined. It does nothing
// on a non-empty block.
func (self *Block) EnsureNonEmpty() {
	if len(self.ins) == 0 {
		self.ins = append(self.ins, il.NewInstr(il.OP_nop))
	}
}

// FirstInstr returns the first instruction, materializing a NOP with
// EnsureNonEmpty if the block is empty.
func (self *Block) FirstInstr() *il.Instr {
	self.EnsureNonEmpty()
	return self.ins[0]
}

// LastInstr returns the last instruction, materializing a NOP with
// EnsureNonEmpty if the block is empty.
func (self *Block) LastInstr() *il.Instr {
	self.EnsureNonEmpty()
	return self.ins[len(self.ins)-1]
}

/* lastOrNil peeks at the last instruction without materializing anything */
func (self *Block) lastOrNil() *il.Instr {
	if n := len(self.ins); n == 0 {
		return nil
	} else {
		return self.ins[n-1]
	}
}

func (self *Block) Add(ins *il.Instr) {
	self.ins = append(self.ins, ins)
}

// Insert inserts an instruction at index i, edges are not touched.
func (self *Block) Insert(i int, ins *il.Instr) error {
	if i < 0 || i > len(self.ins) {
		return eargument("Insert", fmt.Sprintf("index %d out of range [0, %d]", i, len(self.ins)))
	}

	/* make room for the new instruction */
	self.ins = append(self.ins, nil)
	copy(self.ins[i+1:], self.ins[i:])
	self.ins[i] = ins
	return nil
}

// Replace removes count instructions at index i and inserts ins there.
func (self *Block) Replace(i int, count int, ins *il.Instr) error {
	if count <= 0 {
		return eargument("Replace", fmt.Sprintf("count must be positive, got %d", count))
	} else if err := self.Remove(i, count); err != nil {
		return err
	} else {
		return self.Insert(i, ins)
	}
}

// Remove removes count instructions starting at index i. Removing a trailing
// conditional branch takes its branching behavior with it, so the block is
// disconnected from all of its successors first.
func (self *Block) Remove(i int, count int) error {
	if i < 0 || count < 0 {
		return eargument("Remove", fmt.Sprintf("negative range (%d, %d)", i, count))
	} else if i+count > len(self.ins) {
		return eargument("Remove", fmt.Sprintf("range (%d, %d) exceeds %d instructions", i, count, len(self.ins)))
	}

	/* nothing to remove */
	if count == 0 {
		return nil
	}

	/* the conditional branch is going away */
	if i+count == len(self.ins) && self.ins[len(self.ins)-1].IsConditionalBranch() {
		self.DisconnectFromFallThroughAndTargets()
	}

	/* remove the instructions */
	n := copy(self.ins[i:], self.ins[i+count:])
	clearInstrs(self.ins[i+n:])
	self.ins = self.ins[:i+n]
	return nil
}

// RemoveAt removes the instructions at each of the given indices. Indices
// refer to positions before any removal happens.
func (self *Block) RemoveAt(indices ...int) error {
	seen := make(map[int]bool, len(indices))
	list := make([]int, 0, len(indices))

	/* validate everything before touching the block */
	for _, i := range indices {
		if i < 0 || i >= len(self.ins) {
			return eargument("RemoveAt", fmt.Sprintf("index %d out of range [0, %d)", i, len(self.ins)))
		} else if !seen[i] {
			seen[i] = true
			list = append(list, i)
		}
	}

	/* remove from the back, so earlier indices stay valid */
	sort.Sort(sort.Reverse(sort.IntSlice(list)))
	for _, i := range list {
		if err := self.Remove(i, 1); err != nil {
			panic("unreachable: " + err.Error())
		}
	}
	return nil
}

// RemoveNops removes NOPs and every simple load immediately followed by a
// pop, until there is nothing left to remove. A block consisting of a single
// NOP keeps it. Returns true if anything was removed.
func (self *Block) RemoveNops() bool {
	var ok bool
	var rm bool

	/* loop until a fixed point is reached */
	for ok = true; ok; {
		ok = false
		i := 0

		/* scan every instruction */
		for i < len(self.ins) {
			p := self.ins[i]

			/* NOPs, except the only instruction */
			if p.IsNop() && len(self.ins) > 1 {
				self.cut(i, 1)
				ok = true
				continue
			}

			/* a value that is pushed, then discarded */
			if p.IsSimpleLoad() && i+1 < len(self.ins) && self.ins[i+1].IsPop() {
				self.cut(i, 2)
				ok = true
				continue
			}

			/* move to the next instruction */
			i++
		}

		/* remember if anything was removed */
		rm = rm || ok
	}
	return rm
}

/* cut removes a run of instructions with no edge effects */
func (self *Block) cut(i int, count int) {
	n := copy(self.ins[i:], self.ins[i+count:])
	clearInstrs(self.ins[i+n:])
	self.ins = self.ins[:i+n]
}

// RemoveLastBr removes a trailing unconditional branch, its explicit target
// (if any) becomes the fall-through successor. It does nothing if the last
// instruction is not an unconditional branch.
func (self *Block) RemoveLastBr() error {
	if p := self.lastOrNil(); p == nil || !p.IsBranch() {
		return nil
	} else if err := self.checkLastBr("RemoveLastBr"); err != nil {
		return err
	}

	/* the explicit edge becomes the fall-through edge, sources stay the same */
	if self.targets != nil {
		self.fallThrough = self.targets[0]
	}

	/* remove the branch instruction */
	self.targets = nil
	self.cut(len(self.ins)-1, 1)
	return nil
}

func (self *Block) checkLastBr(op string) error {
	if self.fallThrough != nil {
		return estate(op, self, "unconditional branch with a fall-through successor")
	} else if self.ins[len(self.ins)-1].Br != nil && len(self.targets) != 1 {
		return estate(op, self, fmt.Sprintf("unconditional branch with %d targets", len(self.targets)))
	} else if len(self.targets) > 1 {
		return estate(op, self, fmt.Sprintf("operandless branch with %d targets", len(self.targets)))
	} else {
		return nil
	}
}

func (self *Block) String() string {
	refs := make(map[*il.Instr]string)
	buf := []string{fmt.Sprintf("bb_%d:", self.Id)}

	/* name every successor after its block id */
	for _, bb := range self.Targets() {
		if len(bb.ins) != 0 {
			refs[bb.ins[0]] = fmt.Sprintf("bb_%d", bb.Id)
		}
	}

	/* dump every instruction */
	for _, p := range self.ins {
		buf = append(buf, "    "+p.Disassemble(refs))
	}

	/* add the edges */
	if self.fallThrough != nil {
		buf = append(buf, fmt.Sprintf("    ; fall through bb_%d", self.fallThrough.Id))
	}
	for _, bb := range self.targets {
		buf = append(buf, fmt.Sprintf("    ; target bb_%d", bb.Id))
	}
	return strings.Join(buf, "\n")
}

func clearInstrs(p []*il.Instr) {
	for i := range p {
		p[i] = nil
	}
}
