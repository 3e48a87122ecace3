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
	"fmt"

	"github.com/cloudwego/cflow/blocks"
)

// Pass rewrites the graph in place, and reports whether anything changed.
type Pass func(g *blocks.Graph) (bool, error)

var (
	NopCount    uint64 = 0
	FoldCount   uint64 = 0
	ThreadCount uint64 = 0
	MergeCount  uint64 = 0
	DeadCount   uint64 = 0
	FlipCount   uint64 = 0
)

const (
	NopElim    = "nop-elim"
	BranchFold = "branch-fold"
	JumpThread = "jump-thread"
	BlockMerge = "block-merge"
	DeadBlocks = "dead-blocks"
	Layout     = "layout"
)

var _PassTab = map[string]Pass{
	NopElim:    _PASS_NopElimination,
	BranchFold: _PASS_BranchFolding,
	JumpThread: _PASS_JumpThreading,
	BlockMerge: _PASS_BlockMerging,
	DeadBlocks: _PASS_DeadBlocks,
	Layout:     _PASS_Layout,
}

// Default lists the passes that are iterated until nothing changes. Layout is
// not part of it, since it only has to run once at the very end.
var Default = []string{
	NopElim,
	BranchFold,
	JumpThread,
	BlockMerge,
	DeadBlocks,
}

// NameError occures when looking up a pass that does not exist.
type NameError struct {
	Name string
}

func (self NameError) Error() string {
	return fmt.Sprintf("unknown pass: %q", self.Name)
}

// Lookup finds the pass by name.
func Lookup(name string) (Pass, error) {
	if pass, ok := _PassTab[name]; !ok {
		return nil, NameError{Name: name}
	} else {
		return pass, nil
	}
}

// Names returns the names of all the passes, in the order they are meant to
// run.
func Names() []string {
	return append(append([]string(nil), Default...), Layout)
}
