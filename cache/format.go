// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cache

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/enrichit/core"
)

// maxLineSize bounds a single cached value.
const maxLineSize = 1 << 20

// Read parses the newline-delimited cache format.
// A trailing carriage return on a line is dropped.
func Read(r io.Reader) ([]core.Attribute, error) {
	var attrs []core.Attribute

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == core.NoneToken {
			attrs = append(attrs, core.Unknown())
			continue
		}
		attrs = append(attrs, core.Known(line))
	}
	if err := scanner.Err(); err != nil {
		return attrs, fmt.Errorf("%w: line %d: %w", ErrMalformedCache, len(attrs)+1, err)
	}
	return attrs, nil
}

// Write emits attrs in cache format, one newline-terminated line each.
// Values that would not read back as themselves are rejected before anything is written.
func Write(w io.Writer, attrs []core.Attribute) error {
	for i, a := range attrs {
		v, known := a.Value()
		if !known {
			continue
		}
		if strings.ContainsAny(v, "\n\r") {
			return fmt.Errorf("%w: position %d contains a line break", ErrUnencodable, i)
		}
		if v == core.NoneToken {
			return fmt.Errorf("%w: position %d holds the literal %q", ErrUnencodable, i, core.NoneToken)
		}
	}

	bw := bufio.NewWriter(w)
	for _, a := range attrs {
		if _, err := bw.WriteString(a.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
