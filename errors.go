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
)

// PassError occures when a pass fails, or leaves the graph in a broken state.
type PassError struct {
	Pass string
	Err  error
}

func (self *PassError) Error() string {
	return fmt.Sprintf("PassError(%s): %v", self.Pass, self.Err)
}

func (self *PassError) Unwrap() error {
	return self.Err
}
