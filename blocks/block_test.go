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

package blocks

import (
	"testing"

	"github.com/cloudwego/cflow/il"
	"github.com/stretchr/testify/require"
)

func mkins(ops ...il.OpCode) []*il.Instr {
	ret := make([]*il.Instr, len(ops))
	for i, op := range ops {
		ret[i] = il.NewInstr(op)
	}
	return ret
}

func opsof(bb *Block) []il.OpCode {
	ret := make([]il.OpCode, len(bb.ins))
	for i, p := range bb.ins {
		ret[i] = p.Op
	}
	return ret
}

func TestBlock_EnsureNonEmpty(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock()
	require.True(t, bb.IsEmpty())
	require.True(t, bb.IsNopBlock())
	p := bb.FirstInstr()
	q := bb.FirstInstr()
	require.Same(t, p, q)
	require.Same(t, p, bb.LastInstr())
	require.Equal(t, il.OP_nop, p.Op)
	require.Equal(t, 1, bb.Len())
	bb.EnsureNonEmpty()
	require.Equal(t, 1, bb.Len())
}

func TestBlock_EnsureNonEmptyKeepsInstrs(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldloc, il.OP_ret)...)
	bb.EnsureNonEmpty()
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_ret}, opsof(bb))
	require.Equal(t, il.OP_ldloc, bb.FirstInstr().Op)
	require.Equal(t, il.OP_ret, bb.LastInstr().Op)
	require.False(t, bb.IsNopBlock())
}

func TestBlock_RemoveNops(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldc, il.OP_pop, il.OP_nop, il.OP_ldloc, il.OP_pop)...)
	require.True(t, bb.RemoveNops())
	require.Equal(t, 0, bb.Len())
	require.Equal(t, il.OP_nop, bb.FirstInstr().Op)
	require.Equal(t, 1, bb.Len())
	require.False(t, bb.RemoveNops())
	require.Equal(t, 1, bb.Len())
}

func TestBlock_RemoveNopsNested(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldarg, il.OP_ldstr, il.OP_pop, il.OP_pop, il.OP_ret)...)
	require.True(t, bb.RemoveNops())
	require.Equal(t, []il.OpCode{il.OP_ret}, opsof(bb))
}

func TestBlock_RemoveNopsNothingToDo(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldloc, il.OP_stloc, il.OP_call, il.OP_pop, il.OP_ret)...)
	ins := bb.Instrs()
	require.False(t, bb.RemoveNops())
	require.Equal(t, ins, bb.Instrs())
}

func TestBlock_RemoveNopsLoneNop(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_nop)...)
	require.False(t, bb.RemoveNops())
	require.Equal(t, 1, bb.Len())
	bb.Add(il.NewInstr(il.OP_nop))
	require.True(t, bb.RemoveNops())
	require.Equal(t, []il.OpCode{il.OP_nop}, opsof(bb))
}

func TestBlock_Insert(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldloc, il.OP_ret)...)
	require.NoError(t, bb.Insert(1, il.NewInstr(il.OP_dup)))
	require.NoError(t, bb.Insert(0, il.NewInstr(il.OP_nop)))
	require.NoError(t, bb.Insert(4, il.NewInstr(il.OP_nop)))
	require.Equal(t, []il.OpCode{il.OP_nop, il.OP_ldloc, il.OP_dup, il.OP_ret, il.OP_nop}, opsof(bb))
	err := bb.Insert(6, il.NewInstr(il.OP_nop))
	require.IsType(t, &ArgumentError{}, err)
	err = bb.Insert(-1, il.NewInstr(il.OP_nop))
	require.IsType(t, &ArgumentError{}, err)
	require.Equal(t, 5, bb.Len())
}

func TestBlock_Replace(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldloc, il.OP_ldc, il.OP_add, il.OP_ret)...)
	require.NoError(t, bb.Replace(1, 2, il.NewInstr(il.OP_dup)))
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_dup, il.OP_ret}, opsof(bb))
	err := bb.Replace(0, 0, il.NewInstr(il.OP_nop))
	require.IsType(t, &ArgumentError{}, err)
	err = bb.Replace(2, 2, il.NewInstr(il.OP_nop))
	require.IsType(t, &ArgumentError{}, err)
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_dup, il.OP_ret}, opsof(bb))
}

func TestBlock_Remove(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldloc, il.OP_ldc, il.OP_add, il.OP_ret)...)
	require.NoError(t, bb.Remove(1, 0))
	require.Equal(t, 4, bb.Len())
	require.NoError(t, bb.Remove(1, 2))
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_ret}, opsof(bb))
	require.IsType(t, &ArgumentError{}, bb.Remove(-1, 1))
	require.IsType(t, &ArgumentError{}, bb.Remove(0, -1))
	require.IsType(t, &ArgumentError{}, bb.Remove(1, 2))
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_ret}, opsof(bb))
}

func TestBlock_RemoveConditionalBranch(t *testing.T) {
	g := NewGraph()
	a := g.NewBlock(mkins(il.OP_ldloc, il.OP_brtrue)...)
	b := g.NewBlock(mkins(il.OP_ret)...)
	c := g.NewBlock(mkins(il.OP_ret)...)
	a.SetNewFallThrough(b)
	require.NoError(t, a.SetTargets([]*Block{c}))
	require.NoError(t, a.Remove(1, 1))
	require.Nil(t, a.FallThrough())
	require.Nil(t, a.ExplicitTargets())
	require.Empty(t, b.Sources())
	require.Empty(t, c.Sources())
	require.NoError(t, g.Validate())
}

func TestBlock_RemoveKeepsEdgesOfOtherInstrs(t *testing.T) {
	g := NewGraph()
	a := g.NewBlock(mkins(il.OP_ldloc, il.OP_ldc, il.OP_beq)...)
	b := g.NewBlock(mkins(il.OP_ret)...)
	c := g.NewBlock(mkins(il.OP_ret)...)
	a.SetNewFallThrough(b)
	require.NoError(t, a.SetTargets([]*Block{c}))
	require.NoError(t, a.Remove(0, 2))
	require.Equal(t, b, a.FallThrough())
	require.Equal(t, []*Block{c}, a.ExplicitTargets())
	require.NoError(t, g.Validate())
}

func TestBlock_RemoveAt(t *testing.T) {
	g := NewGraph()
	bb := g.NewBlock(mkins(il.OP_ldloc, il.OP_ldc, il.OP_add, il.OP_stloc, il.OP_ret)...)
	require.NoError(t, bb.RemoveAt(3, 1, 1))
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_add, il.OP_ret}, opsof(bb))
	require.IsType(t, &ArgumentError{}, bb.RemoveAt(0, 3))
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_add, il.OP_ret}, opsof(bb))
	require.NoError(t, bb.RemoveAt())
	require.Equal(t, 3, bb.Len())
}

func TestBlock_RemoveLastBr(t *testing.T) {
	g := NewGraph()
	a := g.NewBlock(mkins(il.OP_ldloc, il.OP_stloc, il.OP_br)...)
	b := g.NewBlock(mkins(il.OP_ret)...)
	require.NoError(t, a.SetTargets([]*Block{b}))
	require.NoError(t, a.RemoveLastBr())
	require.Equal(t, []il.OpCode{il.OP_ldloc, il.OP_stloc}, opsof(a))
	require.Equal(t, b, a.FallThrough())
	require.Nil(t, a.ExplicitTargets())
	require.Equal(t, []*Block{a}, b.Sources())
	require.NoError(t, g.Validate())

	/* no branch, nothing to do */
	require.NoError(t, a.RemoveLastBr())
	require.Equal(t, 2, a.Len())
	require.Equal(t, b, a.FallThrough())
}

func TestBlock_RemoveLastBrWithoutOperand(t *testing.T) {
	g := NewGraph()
	a := g.NewBlock(mkins(il.OP_br)...)
	require.NoError(t, a.RemoveLastBr())
	require.Equal(t, 0, a.Len())
	require.Equal(t, 0, a.CountTargets())
}

func TestBlock_RemoveLastBrErrors(t *testing.T) {
	g := NewGraph()
	a := g.NewBlock(mkins(il.OP_br)...)
	b := g.NewBlock(mkins(il.OP_ret)...)
	c := g.NewBlock(mkins(il.OP_ret)...)

	/* branch with a fall-through successor */
	a.SetNewFallThrough(b)
	require.IsType(t, &StateError{}, a.RemoveLastBr())
	require.Equal(t, 1, a.Len())
	require.Equal(t, b, a.FallThrough())
	a.SetNewFallThrough(nil)

	/* branch with an operand but no target */
	a.ins[0].Br = c.FirstInstr()
	require.IsType(t, &StateError{}, a.RemoveLastBr())
	require.Equal(t, 1, a.Len())

	/* branch with an operand and too many targets */
	require.NoError(t, a.SetTargets([]*Block{b, c}))
	require.IsType(t, &StateError{}, a.RemoveLastBr())
	require.Equal(t, []*Block{b, c}, a.ExplicitTargets())

	/* operandless branch with too many targets */
	a.ins[0].Br = nil
	require.IsType(t, &StateError{}, a.RemoveLastBr())
	require.Equal(t, []*Block{b, c}, a.ExplicitTargets())
	require.NoError(t, g.Validate())
}

func TestBlock_String(t *testing.T) {
	g := NewGraph()
	a := g.NewBlock(mkins(il.OP_ldloc, il.OP_brtrue)...)
	b := g.NewBlock(mkins(il.OP_ret)...)
	c := g.NewBlock(mkins(il.OP_ret)...)
	a.ins[1].Br = c.ins[0]
	a.SetNewFallThrough(b)
	require.NoError(t, a.SetTargets([]*Block{c}))
	s := a.String()
	require.Contains(t, s, "bb_0:")
	require.Contains(t, s, "bb_2")
	require.Contains(t, s, "; fall through bb_1")
	require.Contains(t, s, "; target bb_2")
}
