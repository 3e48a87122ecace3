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
	"fmt"

	"github.com/cloudwego/cflow/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxIterations sets the maximum rounds of the pass pipeline.
//
// Each round runs every configured pass once, the pipeline stops as soon as
// a round changes nothing, or this limit is reached.
//
// Set this option to "0" disables this limit.
//
// The default value of this option is "16".
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("cflow: invalid iteration count: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxIterations = n }
	}
}

// WithVerify makes the optimizer validate the graph after every pass.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithPasses replaces the pass pipeline. Passes run in the given order.
func WithPasses(names ...string) Option {
	return func(o *opts.Options) { o.Passes = append([]string(nil), names...) }
}

// WithOptions replaces all the options at once, usually with the ones loaded
// from a config file.
func WithOptions(v opts.Options) Option {
	return func(o *opts.Options) { *o = v }
}

// SetMaxIterations sets the default maximum rounds of the pass pipeline from
// now on.
//
// This value can also be configured with the `CFLOW_MAX_ITERATIONS`
// environment variable.
//
// Returns the old opts.MaxIterations value.
func SetMaxIterations(n int) int {
	n, opts.MaxIterations = opts.MaxIterations, n
	return n
}

// SetVerify sets whether graphs are validated after every pass from now on.
//
// This value can also be configured with the `CFLOW_VERIFY` environment
// variable.
//
// Returns the old opts.Verify value.
func SetVerify(v bool) bool {
	v, opts.Verify = opts.Verify, v
	return v
}
