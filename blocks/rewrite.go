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

	"github.com/cloudwego/cflow/il"
)

// ReplaceLastInstrsWithBranch drops the last n instructions and makes target
// the only successor of this block, reached by falling through.
func (self *Block) ReplaceLastInstrsWithBranch(n int, target *Block) error {
	if n < 0 || n > len(self.ins) {
		return eargument("ReplaceLastInstrsWithBranch", fmt.Sprintf("count %d out of range [0, %d]", n, len(self.ins)))
	} else if target == nil {
		return eargument("ReplaceLastInstrsWithBranch", "target is nil")
	}

	/* drop all the old edges */
	self.DisconnectFromFallThroughAndTargets()
	self.cut(len(self.ins)-n, n)

	/* add the new edge */
	self.fallThrough = target
	target.sources = append(target.sources, self)
	return nil
}

// ReplaceLastNonBranchWithBranch is like ReplaceLastInstrsWithBranch, except
// that a trailing unconditional branch is removed in addition to the last n
// instructions.
func (self *Block) ReplaceLastNonBranchWithBranch(n int, target *Block) error {
	if p := self.lastOrNil(); p != nil && p.IsBranch() {
		n++
	}
	return self.ReplaceLastInstrsWithBranch(n, target)
}

// ReplaceBccWithBranch replaces the trailing conditional branch with a jump
// to the successor it would take when the condition is (or is not) met.
func (self *Block) ReplaceBccWithBranch(taken bool) error {
	if !self.IsConditionalBranch() {
		return estate("ReplaceBccWithBranch", self, "last instruction is not a conditional branch")
	} else if self.fallThrough == nil || len(self.targets) != 1 {
		return estate("ReplaceBccWithBranch", self, "conditional branch without exactly two successors")
	} else if taken {
		return self.ReplaceLastInstrsWithBranch(1, self.targets[0])
	} else {
		return self.ReplaceLastInstrsWithBranch(1, self.fallThrough)
	}
}

// ReplaceSwitchWithBranch replaces the trailing switch with a jump to target.
func (self *Block) ReplaceSwitchWithBranch(target *Block) error {
	if p := self.lastOrNil(); p == nil || !p.IsSwitch() {
		return estate("ReplaceSwitchWithBranch", self, "last instruction is not a switch")
	} else {
		return self.ReplaceLastInstrsWithBranch(1, target)
	}
}

// RemoveDeadBlock removes a block that has no sources from the graph.
func (self *Block) RemoveDeadBlock() error {
	if len(self.sources) != 0 {
		return estate("RemoveDeadBlock", self, fmt.Sprintf("block still has %d sources", len(self.sources)))
	} else {
		self.RemoveGuaranteedDeadBlock()
		return nil
	}
}

// RemoveGuaranteedDeadBlock removes the block from the graph without checking
// its sources, the caller must know that it is unreachable.
func (self *Block) RemoveGuaranteedDeadBlock() {
	self.DisconnectFromFallThroughAndTargets()
	self.parent = nil
}

// CanMerge checks if bb can be appended to this block: bb must be the only
// successor of this block, this block must be the only source of bb, and
// this block must not end with an instruction that has effects beyond
// transferring control (such as leaving a protected region).
func (self *Block) CanMerge(bb *Block) bool {
	if bb == nil || bb == self {
		return false
	} else if self.OnlyTarget() != bb || !bb.IsOnlySource(self) {
		return false
	} else if p := self.lastOrNil(); p != nil && !p.IsBranch() && !p.FallsThrough() {
		return false
	} else {
		return true
	}
}

// Merge appends bb to this block and removes bb from the graph. This block
// takes over all the successors of bb.
func (self *Block) Merge(bb *Block) error {
	if !self.CanMerge(bb) {
		return estate("Merge", self, "blocks cannot be merged")
	}

	/* check the trailing branch before changing anything */
	if p := self.lastOrNil(); p != nil && p.IsBranch() {
		if err := self.checkLastBr("Merge"); err != nil {
			return err
		}
	}

	/* the jump to bb is no longer needed */
	if err := self.RemoveLastBr(); err != nil {
		panic("unreachable: " + err.Error())
	}

	/* splice the instructions */
	ins := make([]*il.Instr, 0, len(self.ins)+len(bb.ins))
	ins = appendInstrs(ins, self.ins)
	ins = appendInstrs(ins, bb.ins)

	/* adopt the edges of bb */
	self.ins = ins
	self.DisconnectFromFallThroughAndTargets()
	self.fallThrough = bb.fallThrough
	self.targets = bb.ExplicitTargets()

	/* bb is gone */
	bb.DisconnectFromFallThroughAndTargets()
	bb.ins = nil
	bb.parent = nil

	/* the entry moves with the instructions */
	if g := self.parent; g != nil && g.Entry == bb {
		g.Entry = self
	}

	/* register the adopted edges */
	self.UpdateSources()
	return nil
}

// IsFallThrough checks if the block simply continues with its fall-through
// successor and has no explicit targets.
func (self *Block) IsFallThrough() bool {
	return self.fallThrough != nil && self.targets == nil
}

func (self *Block) IsConditionalBranch() bool {
	p := self.lastOrNil()
	return p != nil && p.IsConditionalBranch()
}

func (self *Block) CanFlipConditionalBranch() bool {
	p := self.lastOrNil()
	return p != nil && p.CanFlipCondition()
}

// FlipConditionalBranch negates the trailing conditional branch and swaps the
// fall-through successor with the explicit target. The set of successors does
// not change.
func (self *Block) FlipConditionalBranch() error {
	if self.fallThrough == nil {
		return estate("FlipConditionalBranch", self, "no fall-through successor")
	} else if len(self.targets) != 1 {
		return estate("FlipConditionalBranch", self, fmt.Sprintf("expected exactly 1 target, got %d", len(self.targets)))
	} else if !self.CanFlipConditionalBranch() {
		return estate("FlipConditionalBranch", self, "last instruction cannot be flipped")
	}

	/* negate the condition */
	if err := self.ins[len(self.ins)-1].FlipCondition(); err != nil {
		panic("unreachable: " + err.Error())
	}

	/* swap the edges */
	self.fallThrough, self.targets[0] = self.targets[0], self.fallThrough
	return nil
}

func appendInstrs(buf []*il.Instr, ins []*il.Instr) []*il.Instr {
	for _, p := range ins {
		if !p.IsNop() {
			buf = append(buf, p)
		}
	}
	return buf
}
