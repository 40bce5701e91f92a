// Copyright 2023 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package segdump writes polygonal chains as flat text for inspection by
// other tools.
//
// Each chain starts with a header line
//
//	file: <source>;Chain: <id>
//
// followed by one line per segment holding the six endpoint coordinates in
// segment order, separated by semicolons:
//
//	x0;y0;z0;x1;y1;z1
//
// Coordinates use the shortest decimal form that reads back to the same
// float64.
package segdump

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/akhenakh/writhe/writhe"
)

// Write writes chains to w in the flat segment format. source names the file
// the chains were read from.
func Write(w io.Writer, source string, chains ...writhe.Chain) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, c := range chains {
		buf = append(buf[:0], "file: "...)
		buf = append(buf, source...)
		buf = append(buf, ";Chain: "...)
		buf = append(buf, c.ID...)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		for _, s := range c.Segments {
			buf = appendSegment(buf[:0], s)
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteFile writes chains to the named file, replacing it.
func WriteFile(name, source string, chains ...writhe.Chain) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Write(f, source, chains...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func appendSegment(buf []byte, s writhe.Segment) []byte {
	for i, v := range [6]float64{s.Start.X, s.Start.Y, s.Start.Z, s.End.X, s.End.Y, s.End.Z} {
		if i > 0 {
			buf = append(buf, ';')
		}
		buf = strconv.AppendFloat(buf, v, 'f', -1, 64)
	}
	return append(buf, '\n')
}
