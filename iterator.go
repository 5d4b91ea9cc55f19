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

package riscu

import (
	"encoding/binary"
	"io"
)

// LocationIter walks memoryView and yields the PC of every instruction
// boundary it finds, without decoding the instructions themselves.
type LocationIter struct {
	memoryView []byte
	index      int
	address    uint64
}

// NewLocationIter returns an iterator over memoryView, reporting boundaries
// as offsets from address.
func NewLocationIter(memoryView []byte, address uint64) *LocationIter {
	return &LocationIter{memoryView: memoryView, address: address}
}

// Next returns the address of the next instruction boundary, or io.EOF once
// memoryView is exhausted.
func (it *LocationIter) Next() (uint64, error) {
	if it.index >= len(it.memoryView) {
		return 0, io.EOF
	}
	if it.index+2 > len(it.memoryView) {
		return 0, newDecodingError(Truncated, 0, "fewer than two bytes remain")
	}

	hword := binary.LittleEndian.Uint16(it.memoryView[it.index : it.index+2])
	start := it.index

	switch l := InstructionLength(hword); l {
	case 2:
		it.index += 2
	case 4, 6, 8:
		if it.index+l > len(it.memoryView) {
			return 0, newDecodingError(Truncated, uint32(hword), "instruction runs past the end of memoryView")
		}
		it.index += l
	default:
		return 0, newDecodingError(Unimplemented, uint32(hword), "instruction lengths beyond 8 bytes are not supported")
	}

	return it.address + uint64(start), nil
}

// InstructionIter walks memoryView and yields each decoded Instruction in
// turn, automatically choosing between Decode and Decompress by length.
type InstructionIter struct {
	memoryView []byte
	index      int
}

// NewInstructionIter returns an iterator over memoryView.
func NewInstructionIter(memoryView []byte) *InstructionIter {
	return &InstructionIter{memoryView: memoryView}
}

// Next decodes and returns the next instruction, or io.EOF once memoryView
// is exhausted.
func (it *InstructionIter) Next() (Instruction, error) {
	if it.index >= len(it.memoryView) {
		return nil, io.EOF
	}
	if it.index+2 > len(it.memoryView) {
		return nil, newDecodingError(Truncated, 0, "fewer than two bytes remain")
	}

	hword := binary.LittleEndian.Uint16(it.memoryView[it.index : it.index+2])

	switch InstructionLength(hword) {
	case 2:
		it.index += 2
		instr, err := Decompress(hword)
		if err != nil {
			return nil, err
		}
		return instr, nil
	case 4:
		if it.index+4 > len(it.memoryView) {
			return nil, newDecodingError(Truncated, uint32(hword), "a 4-byte instruction runs past the end of memoryView")
		}
		word := binary.LittleEndian.Uint32(it.memoryView[it.index : it.index+4])
		it.index += 4
		instr, err := Decode(word)
		if err != nil {
			return nil, err
		}
		return instr, nil
	default:
		return nil, newDecodingError(Unimplemented, uint32(hword), "instruction lengths beyond 4 bytes are not decoded by this iterator")
	}
}
