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

/* a block that does nothing but pass control on, returns where it goes */
func trampoline(bb *blocks.Block) *blocks.Block {
	if bb.IsFallThrough() && bb.IsNopBlock() {
		return bb.FallThrough()
	} else if bb.FallThrough() == nil && bb.Len() == 1 && bb.Instr(0).IsBranch() {
		return bb.OnlyTarget()
	} else {
		return nil
	}
}

/* follows a chain of trampolines, nil if the chain is a cycle */
func destination(bb *blocks.Block) *blocks.Block {
	seen := make(map[*blocks.Block]bool)
	for {
		if seen[bb] {
			return nil
		}
		seen[bb] = true
		if to := trampoline(bb); to == nil {
			return bb
		} else {
			bb = to
		}
	}
}

// Jump Threading Pass: edges leading to a trampoline block are redirected to
// where the trampoline goes.
func _PASS_JumpThreading(g *blocks.Graph) (bool, error) {
	rt := false
	for _, bb := range g.Blocks() {
		if ft := bb.FallThrough(); ft != nil {
			if to := destination(ft); to != nil && to != ft {
				rt = true
				bb.SetNewFallThrough(to)
				atomic.AddUint64(&ThreadCount, 1)
			}
		}

		/* and the same for every explicit target */
		for i, bt := range bb.ExplicitTargets() {
			if to := destination(bt); to != nil && to != bt {
				if err := bb.SetNewTarget(i, to); err != nil {
					return rt, err
				}
				rt = true
				atomic.AddUint64(&ThreadCount, 1)
			}
		}
	}
	return rt, nil
}
