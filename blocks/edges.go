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

func (self *Block) FallThrough() *Block {
	return self.fallThrough
}

// ExplicitTargets returns a copy of the explicit targets, nil if there is none.
func (self *Block) ExplicitTargets() []*Block {
	if self.targets == nil {
		return nil
	} else {
		return append([]*Block(nil), self.targets...)
	}
}

// Sources returns a copy of the sources, one entry per incoming edge.
func (self *Block) Sources() []*Block {
	return append([]*Block(nil), self.sources...)
}

func (self *Block) removeSource(bb *Block, op string) {
	for i, p := range self.sources {
		if p == bb {
			copy(self.sources[i:], self.sources[i+1:])
			self.sources[len(self.sources)-1] = nil
			self.sources = self.sources[:len(self.sources)-1]
			return
		}
	}

	/* every edge must be registered in the sources of its successor */
	panic(einvariant(op, self, fmt.Sprintf("bb_%d is not a source", bb.Id)))
}

func (self *Block) DisconnectFromFallThrough() {
	if self.fallThrough != nil {
		self.fallThrough.removeSource(self, "DisconnectFromFallThrough")
		self.fallThrough = nil
	}
}

func (self *Block) DisconnectFromTargets() {
	for _, bb := range self.targets {
		bb.removeSource(self, "DisconnectFromTargets")
	}
	self.targets = nil
}

func (self *Block) DisconnectFromFallThroughAndTargets() {
	self.DisconnectFromFallThrough()
	self.DisconnectFromTargets()
}

// UpdateSources adds the block to the sources of all its successors. It must
// only be called when those edges are not registered yet.
func (self *Block) UpdateSources() {
	if self.fallThrough != nil {
		self.fallThrough.sources = append(self.fallThrough.sources, self)
	}
	for _, bb := range self.targets {
		bb.sources = append(bb.sources, self)
	}
}

// CountTargets returns the number of outgoing edges.
func (self *Block) CountTargets() int {
	if self.fallThrough != nil {
		return len(self.targets) + 1
	} else {
		return len(self.targets)
	}
}

// OnlyTarget returns the successor if the block has exactly one outgoing
// edge, or nil otherwise.
func (self *Block) OnlyTarget() *Block {
	if self.CountTargets() != 1 {
		return nil
	} else if self.fallThrough != nil {
		return self.fallThrough
	} else {
		return self.targets[0]
	}
}

// Targets returns all the successors, the fall-through successor comes first,
// followed by the explicit targets in order.
func (self *Block) Targets() []*Block {
	ret := make([]*Block, 0, self.CountTargets())

	/* fall-through first */
	if self.fallThrough != nil {
		ret = append(ret, self.fallThrough)
	}

	/* then every explicit target */
	return append(ret, self.targets...)
}

// IsOnlySource checks if bb is the one and only source of this block.
func (self *Block) IsOnlySource(bb *Block) bool {
	return len(self.sources) == 1 && self.sources[0] == bb
}

// SetNewFallThrough replaces the fall-through successor, nil removes it.
func (self *Block) SetNewFallThrough(bb *Block) {
	self.DisconnectFromFallThrough()
	self.fallThrough = bb

	/* register the new edge */
	if bb != nil {
		bb.sources = append(bb.sources, self)
	}
}

// SetNewTarget replaces the explicit target at index i.
func (self *Block) SetNewTarget(i int, bb *Block) error {
	if bb == nil {
		return eargument("SetNewTarget", "target is nil")
	} else if i < 0 || i >= len(self.targets) {
		return eargument("SetNewTarget", fmt.Sprintf("index %d out of range [0, %d)", i, len(self.targets)))
	}

	/* swap the edge */
	self.targets[i].removeSource(self, "SetNewTarget")
	self.targets[i] = bb
	bb.sources = append(bb.sources, self)
	return nil
}

// SetTargets replaces all the explicit targets, an empty list removes them.
func (self *Block) SetTargets(bbs []*Block) error {
	for _, bb := range bbs {
		if bb == nil {
			return eargument("SetTargets", "target is nil")
		}
	}

	/* drop the old edges */
	self.DisconnectFromTargets()

	/* never keep an empty target list */
	if len(bbs) == 0 {
		return nil
	}

	/* register the new edges */
	self.targets = append([]*Block(nil), bbs...)
	for _, bb := range self.targets {
		bb.sources = append(bb.sources, self)
	}
	return nil
}
