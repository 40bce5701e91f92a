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

// Package pdb reads alpha-carbon traces from PDB format coordinate files
// and turns them into polygonal chains.
//
// Only what a backbone trace needs is read: ATOM records of the first model
// whose residue is an amino acid. HETATM records are skipped.
package pdb

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/golang/geo/r3"

	"github.com/akhenakh/writhe/writhe"
)

// ErrNoChains is returned when a file holds no usable amino acid chain.
var ErrNoChains = errors.New("pdb: no amino acid chains")

// BlankChainID replaces an empty chain identifier.
const BlankChainID = "_"

// AminoThreeToOne maps three letter amino acid names to their one letter
// codes. Residues not in this map are not part of a backbone trace.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// ReadOptions controls how a structure is read.
type ReadOptions struct {
	// Atom is the name of the backbone atom kept for each residue.
	Atom string
	// Logger receives one summary line per file. Nil discards it.
	Logger *log.Logger
}

// DefaultReadOptions returns options that read alpha carbons.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Atom: "CA"}
}

// Residue is one backbone position.
type Residue struct {
	Name  string
	Seq   int
	ICode byte
	Pos   r3.Vector
}

// Chain is the ordered backbone positions of one chain.
type Chain struct {
	ID       string
	Residues []Residue
}

// Points returns the residue positions in order.
func (c Chain) Points() []r3.Vector {
	pts := make([]r3.Vector, len(c.Residues))
	for i, r := range c.Residues {
		pts[i] = r.Pos
	}
	return pts
}

// Sequence returns the one letter amino acid sequence of the chain.
func (c Chain) Sequence() string {
	var b strings.Builder
	for _, r := range c.Residues {
		b.WriteByte(AminoThreeToOne[r.Name])
	}
	return b.String()
}

// Structure is the content of one coordinate file.
type Structure struct {
	Source string
	// Chains in order of first appearance in the file.
	Chains []Chain

	// Skipped counts ATOM and HETATM records that were not used.
	Skipped int
}

// WritheChains returns one polygonal chain per chain of s, with a segment
// between each pair of consecutive residues.
func (s *Structure) WritheChains() []writhe.Chain {
	out := make([]writhe.Chain, len(s.Chains))
	for i, c := range s.Chains {
		out[i] = writhe.ChainFromPoints(c.ID, c.Points())
	}
	return out
}

// NumResidues returns the number of residues over all chains.
func (s *Structure) NumResidues() int {
	n := 0
	for _, c := range s.Chains {
		n += len(c.Residues)
	}
	return n
}

// SanitizeChainID returns id with surrounding blanks removed, or
// BlankChainID if nothing is left.
func SanitizeChainID(id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return BlankChainID
	}
	return id
}

// Read reads the structure in fileName. Names ending in ".gz" are
// decompressed; other files are memory mapped.
func Read(fileName string, opts ReadOptions) (*Structure, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s *Structure
	if filepath.Ext(fileName) == ".gz" {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("pdb: %s: %w", fileName, err)
		}
		defer zr.Close()
		s, err = Parse(zr, fileName, opts)
		if err != nil {
			return nil, err
		}
	} else {
		fi, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if fi.Size() == 0 {
			// An empty file cannot be mapped.
			return Parse(bytes.NewReader(nil), fileName, opts)
		}
		mm, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("pdb: mapping %s: %w", fileName, err)
		}
		defer mm.Unmap()
		s, err = Parse(bytes.NewReader(mm), fileName, opts)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Parse reads a structure in PDB format from r. source names the input in
// errors and in the Structure.
func Parse(r io.Reader, source string, opts ReadOptions) (*Structure, error) {
	if opts.Atom == "" {
		opts.Atom = DefaultReadOptions().Atom
	}
	s := &Structure{Source: source}
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Bytes()
		if len(line) < 6 {
			continue
		}
		// The record name is always in the first six columns.
		switch strings.TrimSpace(string(line[0:6])) {
		case "ATOM":
			res, chainID, ok, err := parseAtom(line, opts.Atom)
			if err != nil {
				return nil, fmt.Errorf("pdb: %s line %d: %w", source, lineNum, err)
			}
			if !ok {
				s.Skipped++
				continue
			}
			i, seen := index[chainID]
			if !seen {
				i = len(s.Chains)
				index[chainID] = i
				s.Chains = append(s.Chains, Chain{ID: chainID})
			}
			c := &s.Chains[i]
			if n := len(c.Residues); n > 0 && c.Residues[n-1].Seq == res.Seq && c.Residues[n-1].ICode == res.ICode {
				// A second conformation of the same residue.
				s.Skipped++
				continue
			}
			c.Residues = append(c.Residues, res)
		case "HETATM":
			s.Skipped++
		case "ENDMDL":
			// Only the first model is read.
			return finish(s, opts)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pdb: reading %s: %w", source, err)
	}
	return finish(s, opts)
}

func finish(s *Structure, opts ReadOptions) (*Structure, error) {
	if opts.Logger != nil {
		opts.Logger.Println(s.Source, len(s.Chains), s.NumResidues(), s.Skipped)
	}
	if len(s.Chains) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChains, s.Source)
	}
	return s, nil
}

// parseAtom reads an ATOM record. ok is false for records that are not the
// wanted backbone atom of an amino acid residue, or that belong to an
// alternate location other than the first.
//
// Columns, counted from one: atom name 13-16, alternate location 17,
// residue name 18-20, chain 22, residue number 23-26, insertion code 27,
// coordinates 31-38, 39-46 and 47-54.
func parseAtom(line []byte, atom string) (res Residue, chainID string, ok bool, err error) {
	if len(line) < 54 {
		return res, "", false, fmt.Errorf("ATOM record too short (%d columns)", len(line))
	}
	if strings.TrimSpace(string(line[12:16])) != atom {
		return res, "", false, nil
	}
	if alt := line[16]; alt != ' ' && alt != 'A' {
		return res, "", false, nil
	}
	res.Name = strings.TrimSpace(string(line[17:20]))
	if _, isAmino := AminoThreeToOne[res.Name]; !isAmino {
		return res, "", false, nil
	}
	chainID = SanitizeChainID(string(line[21:22]))

	if res.Seq, err = strconv.Atoi(strings.TrimSpace(string(line[22:26]))); err != nil {
		return res, "", false, fmt.Errorf("residue number: %w", err)
	}
	res.ICode = line[26]

	var xyz [3]float64
	for i := range xyz {
		field := strings.TrimSpace(string(line[30+8*i : 38+8*i]))
		if xyz[i], err = strconv.ParseFloat(field, 64); err != nil {
			return res, "", false, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
	}
	res.Pos = r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return res, chainID, true, nil
}
