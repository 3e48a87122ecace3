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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/cflow/internal/passes"
)

// A Stats records statistics about the rewrites done by the optimizer.
type Stats struct {
	Nops       int
	Folds      int
	Threads    int
	Merges     int
	DeadBlocks int
	Flips      int
}

// GetStats returns statistics of the optimizer since the process started.
func GetStats() Stats {
	return Stats{
		Nops:       int(atomic.LoadUint64(&passes.NopCount)),
		Folds:      int(atomic.LoadUint64(&passes.FoldCount)),
		Threads:    int(atomic.LoadUint64(&passes.ThreadCount)),
		Merges:     int(atomic.LoadUint64(&passes.MergeCount)),
		DeadBlocks: int(atomic.LoadUint64(&passes.DeadCount)),
		Flips:      int(atomic.LoadUint64(&passes.FlipCount)),
	}
}
