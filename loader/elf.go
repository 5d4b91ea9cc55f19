// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package loader reads RISC-U ELF64 executables and exposes their code and
// data segments, with an optional one-shot decode into typed instructions.
package loader

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cksystemsgroup/riscu"
)

// Kind classifies why loading or decoding an ELF file failed.
type Kind int

const (
	// CouldNotReadFile means the underlying file could not be opened or read.
	CouldNotReadFile Kind = iota
	// InvalidElf means the file is not parseable as an ELF object at all.
	InvalidElf
	// InvalidRiscu means the file parses as ELF but violates a RISC-U
	// structural requirement (wrong class, missing segments, and so on).
	InvalidRiscu
	// DecodingFailure means Decode encountered a word it could not turn
	// into an Instruction.
	DecodingFailure
)

func (k Kind) String() string {
	switch k {
	case CouldNotReadFile:
		return "could not read file"
	case InvalidElf:
		return "invalid ELF"
	case InvalidRiscu:
		return "not a valid RISC-U ELF file"
	case DecodingFailure:
		return "decoding failure"
	default:
		return "invalid loader error kind"
	}
}

// Error reports why a Load or Decode call failed.
type Error struct {
	Kind   Kind
	reason string
	err    error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.reason, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.reason)
}

func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, reason: reason, err: err}
}

// Segment is a contiguous region of an executable's address space, carrying
// both its on-disk bytes (zero-padded to memsz) and its load address.
type Segment struct {
	Address uint64
	Content []byte
}

// Program is the code and data segments extracted from an ELF64 RISC-U
// executable, plus the subrange of code that actually holds instructions.
type Program struct {
	Code             Segment
	Data             Segment
	InstructionRange [2]uint64 // [start, end) offsets into Code.Content
	Entry            uint64
}

// DecodedSegment is a sequence of decoded values at a base address.
type DecodedSegment struct {
	Address      uint64
	Instructions []riscu.Instruction
}

// DecodedData is a sequence of 64-bit little-endian words at a base address.
type DecodedData struct {
	Address uint64
	Words   []uint64
}

// DecodedProgram is the typed view of a Program: code as instructions, data
// as 64-bit words.
type DecodedProgram struct {
	Code DecodedSegment
	Data DecodedData
}

// Load reads path and extracts its RISC-U code and data segments.
func Load(path string) (*Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(CouldNotReadFile, path, err)
	}
	return LoadBytes(raw)
}

// LoadBytes extracts a Program from an in-memory ELF64 image.
func LoadBytes(raw []byte) (*Program, error) {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, newError(InvalidElf, "failed to parse ELF", err)
	}
	defer f.Close()

	if f.Type == elf.ET_DYN {
		return nil, newError(InvalidRiscu, "must be a static executable, not a shared object", nil)
	}
	if f.Class != elf.ELFCLASS64 {
		return nil, newError(InvalidRiscu, "must be a 64-bit ELF file", nil)
	}
	if f.Data != elf.ELFDATA2LSB {
		return nil, newError(InvalidRiscu, "must be little-endian", nil)
	}

	var loads []*elf.Prog
	for _, p := range f.Progs {
		if p.Type == elf.PT_LOAD {
			loads = append(loads, p)
		}
	}
	if len(loads) < 2 {
		return nil, newError(InvalidRiscu, "must have at least 2 PT_LOAD segments", nil)
	}

	var codeHdr, dataHdr *elf.Prog
	for _, p := range loads {
		readable := p.Flags&elf.PF_R != 0
		writable := p.Flags&elf.PF_W != 0
		executable := p.Flags&elf.PF_X != 0
		switch {
		case readable && executable && !writable && codeHdr == nil:
			codeHdr = p
		case readable && writable && !executable && dataHdr == nil:
			dataHdr = p
		}
	}
	if codeHdr == nil {
		return nil, newError(InvalidRiscu, "code segment (readable and executable) is missing", nil)
	}
	if dataHdr == nil {
		return nil, newError(InvalidRiscu, "data segment (readable and writable) is missing", nil)
	}

	var codeStart uint64
	var codeBytes []byte
	var instrStart, instrEnd uint64

	if codeHdr.Off == 0 {
		// Legacy Selfie toolchain output: p_offset is unset, fall back to
		// the section headers to locate the code.
		section := findExecutableSection(f)
		if section == nil {
			return nil, newError(InvalidRiscu, "code section (executable) is missing", nil)
		}
		codeStart = section.Addr
		data, err := section.Data()
		if err != nil {
			return nil, newError(InvalidRiscu, "could not read code section", err)
		}
		codeBytes = data
		instrStart, instrEnd = 0, uint64(len(codeBytes))
	} else {
		codeStart = codeHdr.Vaddr
		data := make([]byte, codeHdr.Filesz)
		if _, err := io.ReadFull(codeHdr.Open(), data); err != nil && err != io.EOF {
			return nil, newError(InvalidRiscu, "could not read code segment", err)
		}
		padding := make([]byte, codeHdr.Memsz-codeHdr.Filesz)
		codeBytes = append(data, padding...)

		if section := findExecutableSection(f); section != nil && section.Addr >= codeStart {
			instrStart = section.Addr - codeStart
			instrEnd = instrStart + section.Size
		} else {
			instrStart, instrEnd = 0, uint64(len(codeBytes))
		}
	}

	dataStart := dataHdr.Vaddr
	dataBytes := make([]byte, dataHdr.Filesz)
	if _, err := io.ReadFull(dataHdr.Open(), dataBytes); err != nil && err != io.EOF {
		return nil, newError(InvalidRiscu, "could not read data segment", err)
	}
	padding := make([]byte, dataHdr.Memsz-dataHdr.Filesz)
	dataBytes = append(dataBytes, padding...)

	return &Program{
		Code:             Segment{Address: codeStart, Content: codeBytes},
		Data:             Segment{Address: dataStart, Content: dataBytes},
		InstructionRange: [2]uint64{instrStart, instrEnd},
		Entry:            f.Entry,
	}, nil
}

func findExecutableSection(f *elf.File) *elf.Section {
	for _, s := range f.Sections {
		if s.Type == elf.SHT_PROGBITS && s.Flags&elf.SHF_EXECINSTR != 0 && s.Flags&elf.SHF_WRITE == 0 {
			return s
		}
	}
	return nil
}

// Decode walks the instruction range of p.Code using riscu's streaming
// iterator and its data segment as 64-bit words, producing a DecodedProgram.
func (p *Program) Decode() (*DecodedProgram, error) {
	lo, hi := p.InstructionRange[0], p.InstructionRange[1]
	if hi > uint64(len(p.Code.Content)) {
		hi = uint64(len(p.Code.Content))
	}

	it := riscu.NewInstructionIter(p.Code.Content[lo:hi])
	var instructions []riscu.Instruction
	for {
		instr, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newError(DecodingFailure, "code segment", err)
		}
		instructions = append(instructions, instr)
	}

	words := make([]uint64, 0, len(p.Data.Content)/8)
	for off := 0; off+8 <= len(p.Data.Content); off += 8 {
		words = append(words, binary.LittleEndian.Uint64(p.Data.Content[off:off+8]))
	}

	return &DecodedProgram{
		Code: DecodedSegment{Address: p.Code.Address + lo, Instructions: instructions},
		Data: DecodedData{Address: p.Data.Address, Words: words},
	}, nil
}
