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

// NOP Elimination Pass: removes NOPs and values that are pushed only to be
// popped right away.
func _PASS_NopElimination(g *blocks.Graph) (bool, error) {
	rt := false
	for _, bb := range g.Blocks() {
		if n := bb.Len(); bb.RemoveNops() {
			rt = true
			atomic.AddUint64(&NopCount, uint64(n-bb.Len()))
		}
	}
	return rt, nil
}
