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
	"strings"

	"github.com/cloudwego/cflow/il"
	"github.com/oleiade/lane"
)

// Graph owns the blocks of a method body. A block belongs to the graph as
// long as its parent points at it; removed blocks are dropped lazily.
type Graph struct {
	Entry *Block
	id    int
	buf   []*Block
}

func NewGraph() *Graph {
	return new(Graph)
}

// NewBlock creates a block holding the given instructions, without any edges.
// The first block created becomes the entry.
func (self *Graph) NewBlock(ins ...*il.Instr) *Block {
	bb := &Block{
		Id:     self.id,
		ins:    append([]*il.Instr(nil), ins...),
		parent: self,
	}

	/* add to the block list */
	self.id++
	self.buf = append(self.buf, bb)

	/* the first block is the entry */
	if self.Entry == nil {
		self.Entry = bb
	}
	return bb
}

func (self *Graph) compact() {
	i := 0
	for _, bb := range self.buf {
		if bb.parent == self {
			self.buf[i] = bb
			i++
		}
	}
	for j := i; j < len(self.buf); j++ {
		self.buf[j] = nil
	}
	self.buf = self.buf[:i]
}

// Blocks returns the live blocks in layout order.
func (self *Graph) Blocks() []*Block {
	self.compact()
	return append([]*Block(nil), self.buf...)
}

func (self *Graph) Len() int {
	self.compact()
	return len(self.buf)
}

// SetOrder changes the layout order. The list must be a permutation of the
// live blocks.
func (self *Graph) SetOrder(order []*Block) error {
	self.compact()
	seen := make(map[*Block]bool, len(order))

	/* must contain every live block exactly once */
	if len(order) != len(self.buf) {
		return eargument("SetOrder", fmt.Sprintf("expected %d blocks, got %d", len(self.buf), len(order)))
	}
	for _, bb := range order {
		if bb == nil || bb.parent != self || seen[bb] {
			return eargument("SetOrder", "not a permutation of the live blocks")
		} else {
			seen[bb] = true
		}
	}

	/* entry always goes first */
	if len(order) != 0 && order[0] != self.Entry {
		return eargument("SetOrder", "entry block must come first")
	}

	/* replace the block list */
	copy(self.buf, order)
	return nil
}

// Reachable returns the set of blocks reachable from the entry.
func (self *Graph) Reachable() map[*Block]bool {
	q := lane.NewQueue()
	ret := make(map[*Block]bool)

	/* empty graph */
	if self.Entry == nil || self.Entry.parent != self {
		return ret
	}

	/* traverse the graph with BFS */
	ret[self.Entry] = true
	for q.Enqueue(self.Entry); !q.Empty(); {
		bb := q.Dequeue().(*Block)
		for _, p := range bb.Targets() {
			if !ret[p] {
				ret[p] = true
				q.Enqueue(p)
			}
		}
	}
	return ret
}

// Validate checks the structural invariants of every live block.
func (self *Graph) Validate() error {
	for _, bb := range self.Blocks() {
		if err := bb.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (self *Block) validate() error {
	edges := make(map[*Block]int)
	srcs := make(map[*Block]int)

	/* the target list is either nil or non-empty */
	if self.targets != nil && len(self.targets) == 0 {
		return einvariant("Validate", self, "empty target list")
	}

	/* count edges per successor */
	for _, bb := range self.Targets() {
		if bb.parent != self.parent {
			return einvariant("Validate", self, fmt.Sprintf("successor bb_%d is not in the graph", bb.Id))
		} else {
			edges[bb]++
		}
	}

	/* every edge must have exactly one matching source entry */
	for bb, n := range edges {
		if m := countBlock(bb.sources, self); m != n {
			return einvariant("Validate", self, fmt.Sprintf("%d edges to bb_%d, but %d source entries", n, bb.Id, m))
		}
	}

	/* every source entry must have a matching edge */
	for _, bb := range self.sources {
		srcs[bb]++
	}
	for bb, n := range srcs {
		if bb.parent != self.parent {
			return einvariant("Validate", self, fmt.Sprintf("source bb_%d is not in the graph", bb.Id))
		} else if m := countBlock(bb.Targets(), self); m != n {
			return einvariant("Validate", self, fmt.Sprintf("%d source entries of bb_%d, but %d edges", n, bb.Id, m))
		}
	}
	return nil
}

func (self *Graph) String() string {
	var buf []string
	for _, bb := range self.Blocks() {
		buf = append(buf, bb.String())
		for _, p := range bb.sources {
			buf = append(buf, fmt.Sprintf("    ; source bb_%d", p.Id))
		}
	}
	return strings.Join(buf, "\n")
}

func countBlock(bbs []*Block, bb *Block) (n int) {
	for _, p := range bbs {
		if p == bb {
			n++
		}
	}
	return
}
