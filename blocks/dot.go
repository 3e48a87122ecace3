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
	"fmt"
	"strings"

	"github.com/cloudwego/cflow/il"
	"github.com/oleiade/lane"
)

func dumpbb(bb *Block, refs map[*il.Instr]string) string {
	buf := []string{fmt.Sprintf(`bb_%d:\l`, bb.Id)}
	for _, p := range bb.ins {
		buf = append(buf, fmt.Sprintf(`%4c%s\l`, ' ', p.Disassemble(refs)))
	}
	ret := strings.Join(buf, "")
	ret = strings.ReplaceAll(ret, `"`, `\"`)
	return ret
}

// Dot renders the blocks reachable from the entry in Graphviz format.
func Dot(g *Graph) string {
	type Route struct {
		A int
		B int
	}
	q := lane.NewQueue()
	r := make(map[Route]bool)
	t := make(map[*il.Instr]string)
	m := make(map[*Block]bool)
	buf := []string{
		"digraph CFG {",
		`    graph [ fontname = "monospace" ]`,
		`    node [ fontname = "monospace", shape = "box" ]`,
		`    edge [ fontname = "monospace" ]`,
		`    START [ shape = "circle" ]`,
	}

	/* empty graph */
	if g.Entry == nil || g.Entry.parent != g {
		return strings.Join(append(buf, "}"), "\n")
	}

	/* name every block by its first instruction */
	for _, bb := range g.Blocks() {
		if len(bb.ins) != 0 {
			t[bb.ins[0]] = fmt.Sprintf("bb_%d", bb.Id)
		}
	}

	/* traverse the graph with BFS */
	m[g.Entry] = true
	buf = append(buf, fmt.Sprintf(`    START -> bb_%d`, g.Entry.Id))
	for q.Enqueue(g.Entry); !q.Empty(); {
		p := q.Dequeue().(*Block)
		buf = append(buf, fmt.Sprintf(`    bb_%d [ label = "%s" ]`, p.Id, dumpbb(p, t)))

		/* the fall-through edge */
		if ft := p.fallThrough; ft != nil {
			buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ color = "red", label = "fallthrough" ]`, p.Id, ft.Id))
			if !m[ft] {
				m[ft] = true
				q.Enqueue(ft)
			}
		}

		/* the explicit targets, parallel edges are drawn once */
		for i, ln := range p.targets {
			rt := Route{A: p.Id, B: ln.Id}
			if !r[rt] {
				r[rt] = true
				buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ color = "green", label = "%d" ]`, p.Id, ln.Id, i))
			}
			if !m[ln] {
				m[ln] = true
				q.Enqueue(ln)
			}
		}
	}

	/* all done */
	buf = append(buf, "}")
	return strings.Join(buf, "\n")
}
