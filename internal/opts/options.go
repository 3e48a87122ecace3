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

package opts

import (
	"github.com/cloudwego/cflow/internal/passes"
)

type Options struct {
	MaxIterations int
	Verify        bool
	Passes        []string
}

// CanIterate checks if another round of the pass pipeline is allowed.
func (self *Options) CanIterate(n int) bool {
	return self.MaxIterations > n || self.MaxIterations == 0
}

func GetDefaultOptions() Options {
	return Options{
		MaxIterations: MaxIterations,
		Verify:        Verify,
		Passes:        append([]string(nil), passes.Default...),
	}
}
