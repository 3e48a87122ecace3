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
	"fmt"
	"strings"
)

// Program is a linear instruction stream, branch operands point at
// instructions within the same Program.
type Program []*Instr

// Labels assigns a label to every instruction that is a branch target.
func (self Program) Labels() map[*Instr]string {
	pc := make(map[*Instr]int, len(self))
	ret := make(map[*Instr]string)

	/* index every instruction */
	for i, ins := range self {
		pc[ins] = i
	}

	/* name every branch target after its position */
	for _, ins := range self {
		if ins.Br != nil {
			ret[ins.Br] = fmt.Sprintf("L_%d", pc[ins.Br])
		}
		for _, sw := range ins.Sw {
			if sw != nil {
				ret[sw] = fmt.Sprintf("L_%d", pc[sw])
			}
		}
	}
	return ret
}

func (self Program) Disassemble() string {
	refs := self.Labels()
	ret := make([]string, 0, len(self)+1)

	/* disassemble each instruction */
	for _, ins := range self {
		if lb, ok := refs[ins]; !ok {
			ret = append(ret, "\t"+ins.Disassemble(refs))
		} else {
			ret = append(ret, fmt.Sprintf("%s:\n\t%s", lb, ins.Disassemble(refs)))
		}
	}

	/* add an "end" indicator, and join all the strings */
	return strings.Join(append(ret, "\tend"), "\n")
}
