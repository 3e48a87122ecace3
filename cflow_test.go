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

package cflow

import (
	"errors"
	"testing"

	"github.com/cloudwego/cflow/blocks"
	"github.com/cloudwego/cflow/il"
	"github.com/cloudwego/cflow/internal/opts"
	"github.com/cloudwego/cflow/internal/passes"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkprog(t *testing.T, src string) il.Program {
	p, err := il.Assemble(src)
	require.NoError(t, err)
	return p
}

func TestSimplify_ConstantBranch(t *testing.T) {
	p := mkprog(t, `
        ldc 1
        brtrue yes
        ldc 0
        ret
    yes:
        ldc 2
        ret
    `)
	r, err := Simplify(p, WithVerify(true))
	require.NoError(t, err)
	if !assertOps(t, r, il.OP_ldc, il.OP_ret) {
		spew.Dump(r)
	}
	require.Equal(t, int64(2), r[0].Iv)
}

func TestSimplify_Loop(t *testing.T) {
	p := mkprog(t, `
    top:
        ldloc 0
        brfalse done
        call work
        br top
    done:
        ret
    `)
	r, err := Simplify(p, WithVerify(true))
	require.NoError(t, err)
	require.Equal(t, p.Disassemble(), r.Disassemble())
}

func TestSimplify_NoPasses(t *testing.T) {
	p := mkprog(t, `
        ldc 1
        brtrue yes
        ldc 0
        ret
    yes:
        ldc 2
        ret
    `)
	src := p.Disassemble()
	r, err := Simplify(p, WithPasses())
	require.NoError(t, err)
	require.Equal(t, src, r.Disassemble())
}

func TestSimplify_Errors(t *testing.T) {
	_, err := Simplify(nil)
	require.IsType(t, &blocks.ArgumentError{}, err)
	_, err = Simplify(mkprog(t, "ret"), WithPasses(passes.NopElim, "inline"))
	require.IsType(t, &PassError{}, err)
	require.Equal(t, "inline", err.(*PassError).Pass)
	require.True(t, errors.Is(err, passes.NameError{Name: "inline"}))
}

func TestOptimize_Iterations(t *testing.T) {
	g, err := blocks.BuildGraph(mkprog(t, `
        ldc 1
        brtrue yes
        ldc 0
        ret
    yes:
        ldc 2
        ret
    `))
	require.NoError(t, err)
	require.NoError(t, Optimize(g, WithMaxIterations(1), WithPasses(passes.BranchFold, passes.DeadBlocks)))
	require.Equal(t, 2, g.Len())
	require.NoError(t, g.Validate())
}

func TestOptions(t *testing.T) {
	require.Panics(t, func() { WithMaxIterations(-1) })
	o := opts.GetDefaultOptions()
	WithOptions(opts.Options{MaxIterations: 3})(&o)
	require.Equal(t, opts.Options{MaxIterations: 3}, o)
	old := SetMaxIterations(5)
	require.Equal(t, 5, opts.GetDefaultOptions().MaxIterations)
	require.Equal(t, 5, SetMaxIterations(old))
	v := SetVerify(true)
	require.True(t, opts.GetDefaultOptions().Verify)
	SetVerify(v)
}

func assertOps(t *testing.T, p il.Program, ops ...il.OpCode) bool {
	var ret []il.OpCode
	for _, v := range p {
		ret = append(ret, v.Op)
	}
	return assert.Equal(t, ops, ret)
}
