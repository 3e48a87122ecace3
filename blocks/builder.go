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

// GraphBuilder splits a linear Program into basic blocks.
type GraphBuilder struct {
	Pin   map[*il.Instr]bool
	Graph map[*il.Instr]*Block
}

func CreateGraphBuilder() *GraphBuilder {
	return &GraphBuilder{
		Pin:   make(map[*il.Instr]bool),
		Graph: make(map[*il.Instr]*Block),
	}
}

func (self *GraphBuilder) scan(p il.Program) error {
	pc := make(map[*il.Instr]bool, len(p))

	/* index every instruction */
	for _, v := range p {
		pc[v] = true
	}

	/* pin every instruction that starts a block */
	for i, v := range p {
		if i == 0 {
			self.Pin[v] = true
		}

		/* the next instruction starts a new block */
		if (v.Op.HasBranchOperand() || v.IsTerminal()) && i+1 < len(p) {
			self.Pin[p[i+1]] = true
		}

		/* so does every branch target */
		if v.Br != nil {
			if !pc[v.Br] {
				return eargument("Build", fmt.Sprintf("branch target of instruction %d is not in the program", i))
			}
			self.Pin[v.Br] = true
		}

		/* and every case of a switch */
		for _, sw := range v.Sw {
			if sw != nil {
				if !pc[sw] {
					return eargument("Build", fmt.Sprintf("switch target of instruction %d is not in the program", i))
				}
				self.Pin[sw] = true
			}
		}
	}
	return nil
}

func (self *GraphBuilder) link(bb *Block, next *Block) error {
	p := bb.lastOrNil()

	/* switches and conditional branches fall through when not taken */
	if p.IsConditionalBranch() || p.IsSwitch() {
		var tab []*Block
		if next == nil {
			return eargument("Build", fmt.Sprintf("bb_%d falls off the end of program", bb.Id))
		}

		/* collect all the explicit targets */
		if p.IsSwitch() {
			for _, sw := range p.Sw {
				if sw != nil {
					tab = append(tab, self.Graph[sw])
				}
			}
		} else {
			tab = append(tab, self.Graph[p.Br])
		}

		/* add the edges */
		bb.SetNewFallThrough(next)
		return bb.SetTargets(tab)
	}

	/* unconditional branches and scope exits only have an explicit target */
	if p.Op.HasBranchOperand() {
		if p.Br == nil {
			return eargument("Build", fmt.Sprintf("%s in bb_%d has no target", p.Op, bb.Id))
		} else {
			return bb.SetTargets([]*Block{self.Graph[p.Br]})
		}
	}

	/* terminals have no successors */
	if p.IsTerminal() {
		return nil
	}

	/* everything else falls through */
	if next == nil {
		return eargument("Build", fmt.Sprintf("bb_%d falls off the end of program", bb.Id))
	} else {
		bb.SetNewFallThrough(next)
		return nil
	}
}

// Build creates the graph of p. The blocks keep the order of p.
func (self *GraphBuilder) Build(p il.Program) (*Graph, error) {
	var bb *Block
	var bbs []*Block

	/* check for empty programs */
	if len(p) == 0 {
		return nil, eargument("Build", "empty program")
	}

	/* find all the leaders */
	g := NewGraph()
	if err := self.scan(p); err != nil {
		return nil, err
	}

	/* split the program into blocks */
	for _, v := range p {
		if self.Pin[v] {
			bb = g.NewBlock()
			bbs = append(bbs, bb)
			self.Graph[v] = bb
		}
		bb.Add(v)
	}

	/* connect all the blocks */
	for i, bb := range bbs {
		var next *Block
		if i+1 < len(bbs) {
			next = bbs[i+1]
		}
		if err := self.link(bb, next); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// BuildGraph is a shortcut for building a graph with a fresh GraphBuilder.
func BuildGraph(p il.Program) (*Graph, error) {
	return CreateGraphBuilder().Build(p)
}
