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
	"github.com/oleiade/lane"
)

func order(g *blocks.Graph) []*blocks.Block {
	var ret []*blocks.Block
	st := lane.NewStack()
	seen := make(map[*blocks.Block]bool)

	/* travel with DFS, fall-through chains are kept together */
	for st.Push(g.Entry); !st.Empty(); {
		for p := st.Pop().(*blocks.Block); p != nil && !seen[p]; p = p.FallThrough() {
			seen[p] = true
			ret = append(ret, p)

			/* the first target is visited first */
			tab := p.ExplicitTargets()
			for i := len(tab) - 1; i >= 0; i-- {
				if !seen[tab[i]] {
					st.Push(tab[i])
				}
			}
		}
	}

	/* unreachable blocks keep their relative order */
	for _, bb := range g.Blocks() {
		if !seen[bb] {
			ret = append(ret, bb)
		}
	}
	return ret
}

// Layout Pass: orders the blocks so that fall-through successors come right
// after their sources, then flips the conditional branches whose explicit
// target ended up next to them.
func _PASS_Layout(g *blocks.Graph) (bool, error) {
	rt := false
	old := g.Blocks()

	/* nothing to order without an entry */
	if g.Entry == nil || g.Entry.Parent() != g {
		return false, nil
	}

	/* compute the new order */
	bbs := order(g)
	if err := g.SetOrder(bbs); err != nil {
		return false, err
	}

	/* check if the order has changed */
	for i, bb := range bbs {
		if old[i] != bb {
			rt = true
			break
		}
	}

	/* flip branches that should fall through to the next block */
	for i := 0; i+1 < len(bbs); i++ {
		bb, next := bbs[i], bbs[i+1]
		if !bb.CanFlipConditionalBranch() || bb.FallThrough() == next {
			continue
		}

		/* the explicit target must be the next block */
		if tab := bb.ExplicitTargets(); len(tab) != 1 || tab[0] != next || bb.FallThrough() == nil {
			continue
		}

		/* flip the condition */
		if err := bb.FlipConditionalBranch(); err != nil {
			return rt, err
		}

		/* update the counter */
		rt = true
		atomic.AddUint64(&FlipCount, 1)
	}
	return rt, nil
}
