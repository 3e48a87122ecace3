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

package il

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

const _TestSource = `
; counts down from arg 0
    ldarg 0
    stloc 0
loop:
    ldloc 0
    brfalse done        ; exit when zero
    ldstr "tick; tock"
    call print
    ldloc 0
    ldc 1
    sub
    stloc 0
    br loop
done:
    ldloc 0
    switch (a, b)
    br
a:
    ret
b:
    throw
`

func TestAssemble(t *testing.T) {
	prog, err := Assemble(_TestSource)
	require.NoError(t, err)
	require.Len(t, prog, 16)
	require.Equal(t, OP_ldarg, prog[0].Op)
	require.Equal(t, OP_brfalse, prog[3].Op)
	require.Same(t, prog[11], prog[3].Br)
	require.Equal(t, "tick; tock", prog[4].Sv)
	require.Equal(t, "print", prog[5].Sv)
	require.Equal(t, int64(1), prog[7].Iv)
	require.Equal(t, OP_sub, prog[8].Op)
	require.Same(t, prog[2], prog[10].Br)
	require.Equal(t, []*Instr{prog[14], prog[15]}, prog[12].Sw)
	require.Equal(t, OP_br, prog[13].Op)
	require.Nil(t, prog[13].Br)
}

func TestAssemble_RoundTrip(t *testing.T) {
	prog, err := Assemble(_TestSource)
	require.NoError(t, err)
	src := prog.Disassemble()
	again, err := Assemble(src)
	require.NoError(t, err)
	if src != again.Disassemble() {
		spew.Dump(prog, again)
	}
	require.Equal(t, src, again.Disassemble())
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		src  string
		line int
	}{
		{"nop\nfoo", 2},
		{"ldc x", 1},
		{"ldc", 1},
		{"ldstr hello", 1},
		{"call", 1},
		{"ret 1", 1},
		{"brtrue", 1},
		{"brtrue 1abc", 1},
		{"switch (a, )\na:\nret", 1},
		{"1x:", 1},
		{"a:\na:\nret", 2},
		{"br nowhere", 0},
	}
	for _, tc := range tests {
		_, err := Assemble(tc.src)
		require.Error(t, err, tc.src)
		require.IsType(t, SyntaxError{}, err, tc.src)
		require.Equal(t, tc.line, err.(SyntaxError).Line, tc.src)
	}
}
