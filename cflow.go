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
	"github.com/cloudwego/cflow/blocks"
	"github.com/cloudwego/cflow/il"
	"github.com/cloudwego/cflow/internal/opts"
	"github.com/cloudwego/cflow/internal/passes"
)

type _Stage struct {
	name string
	pass passes.Pass
}

func stages(names []string) ([]_Stage, error) {
	ret := make([]_Stage, 0, len(names))
	for _, name := range names {
		if pass, err := passes.Lookup(name); err != nil {
			return nil, &PassError{Pass: name, Err: err}
		} else {
			ret = append(ret, _Stage{name, pass})
		}
	}
	return ret, nil
}

func (self _Stage) apply(g *blocks.Graph, verify bool) (bool, error) {
	ok, err := self.pass(g)

	/* check for pass errors */
	if err != nil {
		return ok, &PassError{Pass: self.name, Err: err}
	}

	/* validate the graph if needed */
	if verify {
		if err = g.Validate(); err != nil {
			return ok, &PassError{Pass: self.name, Err: err}
		}
	}
	return ok, nil
}

// Optimize runs the configured passes over g until none of them changes
// anything, then lays the blocks out for linearization.
func Optimize(g *blocks.Graph, options ...Option) error {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}

	/* resolve all the passes first */
	ps, err := stages(o.Passes)
	if err != nil {
		return err
	}

	/* run the pipeline to a fixed point */
	for i, changed := 0, true; changed && o.CanIterate(i); i++ {
		changed = false
		for _, p := range ps {
			ok, err := p.apply(g, o.Verify)
			if err != nil {
				return err
			}
			changed = changed || ok
		}
	}

	/* layout always comes last */
	lp, err := stages([]string{passes.Layout})
	if err != nil {
		return err
	}

	/* apply the layout */
	_, err = lp[0].apply(g, o.Verify)
	return err
}

// Simplify splits p into basic blocks, optimizes the graph and turns it back
// into a flat instruction sequence.
func Simplify(p il.Program, options ...Option) (il.Program, error) {
	g, err := blocks.BuildGraph(p)
	if err != nil {
		return nil, err
	}

	/* optimize the graph */
	if err = Optimize(g, options...); err != nil {
		return nil, err
	}

	/* flatten it again */
	return blocks.Linearize(g), nil
}
