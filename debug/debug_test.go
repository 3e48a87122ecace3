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
	"testing"

	"github.com/cloudwego/cflow/blocks"
	"github.com/cloudwego/cflow/il"
	"github.com/cloudwego/cflow/internal/passes"
	"github.com/stretchr/testify/require"
)

func TestDebug_GetStats(t *testing.T) {
	p, err := il.Assemble(`
        nop
        ldc 1
        pop
        ret
    `)
	require.NoError(t, err)
	g, err := blocks.BuildGraph(p)
	require.NoError(t, err)
	pass, err := passes.Lookup(passes.NopElim)
	require.NoError(t, err)
	old := GetStats()
	ok, err := pass(g)
	require.NoError(t, err)
	require.True(t, ok)
	st := GetStats()
	require.Equal(t, old.Nops+3, st.Nops)
	require.Equal(t, old.Merges, st.Merges)
}
