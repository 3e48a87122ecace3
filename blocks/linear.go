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
	"github.com/cloudwego/cflow/il"
)

// Linearize concatenates the live blocks of g, the entry block first and the
// rest in layout order. Branch operands are re-pointed at the first
// instruction of their target blocks, and an unconditional branch is added
// wherever the fall-through successor is not the next block.
//
// A trailing branch that no longer has explicit targets is settled first: a
// "br" is dropped (or turned into a NOP if it is all the block has), and a
// conditional branch or switch is replaced with the POPs of its operands.
func Linearize(g *Graph) il.Program {
	var n int
	var ret il.Program

	/* every block needs a first instruction to be branched to */
	bbs := entryFirst(g)
	for _, bb := range bbs {
		bb.settle()
		bb.EnsureNonEmpty()
		n += len(bb.ins)
	}

	/* emit every block */
	ret = make(il.Program, 0, n)
	for i, bb := range bbs {
		var next *Block
		if i+1 < len(bbs) {
			next = bbs[i+1]
		}

		/* copy the instructions, and re-point the branch operands */
		ret = append(ret, bb.ins...)
		relink(bb)

		/* jump to the fall-through successor if it is not the next block */
		if ft := bb.fallThrough; ft != nil && ft != next && !leaves(bb) {
			ret = append(ret, &il.Instr{Op: il.OP_br, Br: ft.FirstInstr()})
		}
	}
	return ret
}

func entryFirst(g *Graph) []*Block {
	bbs := g.Blocks()
	for i, bb := range bbs {
		if bb == g.Entry && i != 0 {
			copy(bbs[1:i+1], bbs[:i])
			bbs[0] = bb
			break
		}
	}
	return bbs
}

/* a scope exit without explicit targets leaves to the fall-through successor */
func leaves(bb *Block) bool {
	p := bb.lastOrNil()
	return p != nil && p.IsLeave() && bb.targets == nil && bb.fallThrough != nil
}

func (self *Block) settle() {
	p := self.lastOrNil()
	n := len(self.ins) - 1

	/* only stale branches need settling */
	if p == nil || self.targets != nil || !p.Op.HasBranchOperand() {
		return
	}

	/* replace the branch */
	switch {
	case p.IsBranch() && n == 0:
		self.ins[n] = il.NewInstr(il.OP_nop)
	case p.IsBranch():
		self.cut(n, 1)
	case p.Op == il.OP_brtrue, p.Op == il.OP_brfalse, p.IsSwitch():
		self.ins[n] = il.NewInstr(il.OP_pop)
	case p.IsConditionalBranch():
		self.ins[n] = il.NewInstr(il.OP_pop)
		self.ins = append(self.ins, il.NewInstr(il.OP_pop))
	}
}

func relink(bb *Block) {
	p := bb.LastInstr()

	/* scope exits may have been retargeted to the fall-through successor */
	if leaves(bb) {
		p.Br = bb.fallThrough.FirstInstr()
		return
	}

	/* only the last instruction can branch */
	if !p.Op.HasBranchOperand() || bb.targets == nil {
		return
	}

	/* switch tables follow the target list */
	if p.IsSwitch() {
		p.Sw = make([]*il.Instr, len(bb.targets))
		for i, t := range bb.targets {
			p.Sw[i] = t.FirstInstr()
		}
	} else {
		p.Br = bb.targets[0].FirstInstr()
	}
}
