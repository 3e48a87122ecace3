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
	"github.com/cloudwego/cflow/il"
)

/* truthiness of a constant pushed by a simple load */
func constantOf(p *il.Instr) (bool, bool) {
	switch p.Op {
	case il.OP_ldc:
		return p.Iv != 0, true
	case il.OP_ldnull:
		return false, true
	case il.OP_ldstr:
		return true, true
	default:
		return false, false
	}
}

// Branch Folding Pass: a "brtrue" or "brfalse" testing a constant always goes
// the same way, so it is replaced by a jump to that successor.
func _PASS_BranchFolding(g *blocks.Graph) (bool, error) {
	rt := false
	for _, bb := range g.Blocks() {
		var ok bool
		var cv bool

		/* must end with a constant test */
		n := bb.Len()
		if n < 2 || bb.FallThrough() == nil || len(bb.ExplicitTargets()) != 1 {
			continue
		}

		/* brtrue and brfalse only */
		p := bb.Instr(n - 1)
		if p.Op != il.OP_brtrue && p.Op != il.OP_brfalse {
			continue
		}

		/* the tested value must be a constant */
		if cv, ok = constantOf(bb.Instr(n - 2)); !ok {
			continue
		}

		/* select the successor */
		to := bb.FallThrough()
		if cv == (p.Op == il.OP_brtrue) {
			to = bb.ExplicitTargets()[0]
		}

		/* replace the test with a jump */
		if err := bb.ReplaceLastInstrsWithBranch(2, to); err != nil {
			return rt, err
		}

		/* update the counter */
		rt = true
		atomic.AddUint64(&FoldCount, 1)
	}
	return rt, nil
}
