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
)

func mergeable(g *blocks.Graph, bb *blocks.Block, to *blocks.Block) bool {
	return to != g.Entry && bb.CanMerge(to)
}

// Block Merging Pass: merges every block with its only successor, as long as
// it is the only source of that successor. The entry block is never appended
// to another block, since execution starts at its first instruction.
func _PASS_BlockMerging(g *blocks.Graph) (bool, error) {
	rt := false
	for _, bb := range g.Blocks() {
		if bb.Parent() != g {
			continue
		}

		/* keep merging until the chain ends */
		for to := bb.OnlyTarget(); mergeable(g, bb, to); to = bb.OnlyTarget() {
			if err := bb.Merge(to); err != nil {
				if _, ok := err.(*blocks.StateError); ok {
					break
				} else {
					return rt, err
				}
			}
			rt = true
			atomic.AddUint64(&MergeCount, 1)
		}
	}
	return rt, nil
}
