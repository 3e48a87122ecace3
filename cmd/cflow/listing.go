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

package main

import (
	"strings"

	"github.com/cloudwego/cflow/il"
	"github.com/fatih/color"
)

func listing(p il.Program) string {
	var sb strings.Builder
	for _, line := range strings.Split(p.Disassemble(), "\n") {
		if strings.HasSuffix(line, ":") {
			sb.WriteString(color.YellowString(line))
		} else if s := strings.TrimPrefix(line, "\t"); s == line {
			sb.WriteString(line)
		} else if i := strings.IndexByte(s, ' '); i < 0 {
			sb.WriteString("\t" + color.CyanString(s))
		} else {
			sb.WriteString("\t" + color.CyanString(s[:i]) + s[i:])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
