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

package passes

import (
	"sync/atomic"

	"github.com/cloudwego/cflow/blocks"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

func graphOf(g *blocks.Graph) *simple.DirectedGraph {
	bbs := g.Blocks()
	ret := simple.NewDirectedGraph()

	/* add every live block */
	for _, bb := range bbs {
		ret.AddNode(simple.Node(bb.Id))
	}

	/* add every edge, self loops do not matter for reachability */
	for _, bb := range bbs {
		for _, to := range bb.Targets() {
			if to != bb {
				ret.SetEdge(ret.NewEdge(simple.Node(bb.Id), simple.Node(to.Id)))
			}
		}
	}
	return ret
}

// Dead Blocks Pass: removes every block that cannot be reached from the entry.
// Dead blocks may still reference each other, so they all go at once.
func _PASS_DeadBlocks(g *blocks.Graph) (bool, error) {
	var dfs traverse.DepthFirst
	var bbs []*blocks.Block

	/* nothing is reachable without an entry */
	if g.Entry == nil || g.Entry.Parent() != g {
		return false, nil
	}

	/* walk the graph from the entry */
	dg := graphOf(g)
	dfs.Walk(dg, dg.Node(int64(g.Entry.Id)), nil)

	/* find all the dead blocks */
	for _, bb := range g.Blocks() {
		if !dfs.Visited(simple.Node(bb.Id)) {
			bbs = append(bbs, bb)
		}
	}

	/* and remove them */
	for _, bb := range bbs {
		bb.RemoveGuaranteedDeadBlock()
		atomic.AddUint64(&DeadCount, 1)
	}
	return len(bbs) != 0, nil
}
