// Package program loads decomposed gate sequences from YAML.
//
// A program is the input at the decomposition boundary: an ordered list of
// gate instructions, each a name plus qubit and classical-bit operands.
// Names are classified once by ir.ParseGate so that malformed synthesized
// gates are rejected before any synthesis runs.
//
// Example:
//
//	name: rzx_echo
//	gates:
//	  - {name: direct_rx_1.5707963267948966, qubits: [0]}
//	  - {name: cr_0.7853981633974483, qubits: [0, 1]}
//	  - {name: measure, qubits: [0], clbits: [0]}
package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pulsecal/internal/ir"
)

// Program is a named, ordered gate sequence.
type Program struct {
	Name  string        `yaml:"name"`
	Gates []Instruction `yaml:"gates"`
}

// Instruction is one raw gate as written in the program file.
type Instruction struct {
	Name   string `yaml:"name"`
	Qubits []int  `yaml:"qubits"`
	Clbits []int  `yaml:"clbits,omitempty"`
}

// Load reads and parses a program YAML file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a program document. Unknown fields are rejected.
func Parse(data []byte) (*Program, error) {
	var p Program
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty program")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}
	return &p, nil
}

func (p *Program) validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	for i, g := range p.Gates {
		if g.Name == "" {
			return fmt.Errorf("gates[%d]: name is required", i)
		}
	}
	return nil
}

// Decompose classifies every instruction with ir.ParseGate.
// The first malformed gate aborts with its index in the error.
func (p *Program) Decompose() ([]ir.Gate, error) {
	gates := make([]ir.Gate, 0, len(p.Gates))
	for i, in := range p.Gates {
		g, err := ir.ParseGate(in.Name, in.Qubits, in.Clbits)
		if err != nil {
			return nil, fmt.Errorf("gates[%d]: %w", i, err)
		}
		gates = append(gates, g)
	}
	return gates, nil
}
