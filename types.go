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

import "fmt"

// RType is the register-register instruction word layout:
// funct7[31:25] rs2[24:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0].
type RType uint32

// newRType assembles an RType word, panicking on out-of-range fields: the
// caller builds instructions from typed arguments it controls, so an
// out-of-range field is a programming error, not recoverable input.
func newRType(funct7, funct3, opcode uint32, rd, rs1, rs2 Register) RType {
	mustFit(funct7, 7, "funct7")
	mustFit(funct3, 3, "funct3")
	mustFit(opcode, 7, "opcode")
	return RType(funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode)
}

func (t RType) Encode() uint32   { return uint32(t) }
func (t RType) Opcode() uint32   { return uint32(t) & 0x7f }
func (t RType) Funct3() uint32   { return uint32(t) >> 12 & 0x7 }
func (t RType) Funct7() uint32   { return uint32(t) >> 25 & 0x7f }
func (t RType) Rd() Register     { return newRegister(uint32(t) >> 7) }
func (t RType) Rs1() Register    { return newRegister(uint32(t) >> 15) }
func (t RType) Rs2() Register    { return newRegister(uint32(t) >> 20) }

func (t RType) String() string {
	return fmt.Sprintf("rd: %v, rs1: %v, rs2: %v", t.Rd(), t.Rs1(), t.Rs2())
}

// IType is the register-immediate instruction word layout:
// imm[31:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0].
type IType uint32

func newIType(immediate int32, funct3, opcode uint32, rd, rs1 Register) IType {
	mustFitSigned(immediate, 12, "immediate")
	mustFit(funct3, 3, "funct3")
	mustFit(opcode, 7, "opcode")
	imm := signShrink32(immediate, 12)
	return IType(imm<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode)
}

func (t IType) Encode() uint32 { return uint32(t) }
func (t IType) Opcode() uint32 { return uint32(t) & 0x7f }
func (t IType) Funct3() uint32 { return uint32(t) >> 12 & 0x7 }
func (t IType) Rd() Register   { return newRegister(uint32(t) >> 7) }
func (t IType) Rs1() Register  { return newRegister(uint32(t) >> 15) }
func (t IType) Imm() int32     { return signExtend32(uint32(t)>>20, 12) }

func (t IType) String() string {
	return fmt.Sprintf("rd: %v, rs1: %v, imm: %d", t.Rd(), t.Rs1(), t.Imm())
}

// SType is the store instruction word layout: imm[11:5] rs2 rs1 funct3
// imm[4:0] opcode, with the 12-bit immediate split across two fields.
type SType uint32

func newSType(immediate int32, funct3, opcode uint32, rs1, rs2 Register) SType {
	mustFitSigned(immediate, 12, "immediate")
	mustFit(funct3, 3, "funct3")
	mustFit(opcode, 7, "opcode")
	imm := signShrink32(immediate, 12)
	immHi := imm >> 5 & 0x7f
	immLo := imm & 0x1f
	return SType(immHi<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | immLo<<7 | opcode)
}

func (t SType) Encode() uint32 { return uint32(t) }
func (t SType) Opcode() uint32 { return uint32(t) & 0x7f }
func (t SType) Funct3() uint32 { return uint32(t) >> 12 & 0x7 }
func (t SType) Rs1() Register  { return newRegister(uint32(t) >> 15) }
func (t SType) Rs2() Register  { return newRegister(uint32(t) >> 20) }
func (t SType) Imm() int32 {
	raw := uint32(t)>>20&0xfe0 | uint32(t)>>7&0x1f
	return signExtend32(raw, 12)
}

func (t SType) String() string {
	return fmt.Sprintf("imm: %d, rs1: %v, rs2: %v", t.Imm(), t.Rs1(), t.Rs2())
}

// BType is the branch instruction word layout. The 13-bit signed offset
// (always even) is scattered across bits 31, 30:25, 11:8 and 7.
type BType uint32

func newBType(immediate int32, funct3, opcode uint32, rs1, rs2 Register) BType {
	mustFitSigned(immediate, 13, "immediate")
	mustFit(funct3, 3, "funct3")
	mustFit(opcode, 7, "opcode")
	imm := signShrink32(immediate, 13)
	imm12 := imm >> 12 & 0x1
	imm10_5 := imm >> 5 & 0x3f
	imm4_1 := imm >> 1 & 0xf
	imm11 := imm >> 11 & 0x1
	return BType(imm12<<31 | imm10_5<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | imm4_1<<8 | imm11<<7 | opcode)
}

func (t BType) Encode() uint32 { return uint32(t) }
func (t BType) Opcode() uint32 { return uint32(t) & 0x7f }
func (t BType) Funct3() uint32 { return uint32(t) >> 12 & 0x7 }
func (t BType) Rs1() Register  { return newRegister(uint32(t) >> 15) }
func (t BType) Rs2() Register  { return newRegister(uint32(t) >> 20) }
func (t BType) Imm() int32 {
	raw := uint32(t)&0x8000_0000>>19 | uint32(t)&0x7e00_0000>>20 | uint32(t)&0x0000_0f00>>7 | uint32(t)&0x0000_0080<<4
	return signExtend32(raw, 13)
}

func (t BType) String() string {
	return fmt.Sprintf("imm: %d, rs1: %v, rs2: %v", t.Imm(), t.Rs1(), t.Rs2())
}

// UType is the upper-immediate instruction word layout: imm[31:12] rd[11:7]
// opcode[6:0]. The immediate is the already-shifted upper 20 bits.
type UType uint32

func newUType(immediate int32, opcode uint32, rd Register) UType {
	mustFit(uint32(immediate), 20, "immediate")
	mustFit(opcode, 7, "opcode")
	return UType(uint32(immediate)<<12 | uint32(rd)<<7 | opcode)
}

func (t UType) Encode() uint32 { return uint32(t) }
func (t UType) Opcode() uint32 { return uint32(t) & 0x7f }
func (t UType) Rd() Register   { return newRegister(uint32(t) >> 7) }
func (t UType) Imm() uint32    { return (uint32(t) & 0xfffff000) >> 12 }

func (t UType) String() string {
	return fmt.Sprintf("rd: %v, imm: %#x", t.Rd(), t.Imm())
}

// JType is the jump-and-link instruction word layout. The 21-bit signed
// offset (always even) is scattered across bits 31, 30:21, 20 and 19:12.
type JType uint32

func newJType(immediate int32, opcode uint32, rd Register) JType {
	mustFitSigned(immediate, 21, "immediate")
	mustFit(opcode, 7, "opcode")
	imm := signShrink32(immediate, 21)
	imm20 := imm >> 20 & 0x1
	imm10_1 := imm >> 1 & 0x3ff
	imm11 := imm >> 11 & 0x1
	imm19_12 := imm >> 12 & 0xff
	return JType(imm20<<31 | imm10_1<<21 | imm11<<20 | imm19_12<<12 | uint32(rd)<<7 | opcode)
}

func (t JType) Encode() uint32 { return uint32(t) }
func (t JType) Opcode() uint32 { return uint32(t) & 0x7f }
func (t JType) Rd() Register   { return newRegister(uint32(t) >> 7) }
func (t JType) Imm() int32 {
	raw := uint32(t)&0x8000_0000>>11 | uint32(t)&0x7fe0_0000>>20 | uint32(t)&0x0010_0000>>9 | uint32(t)&0x000f_f000
	return signExtend32(raw, 21)
}

func (t JType) String() string {
	return fmt.Sprintf("rd: %v, imm: %d", t.Rd(), t.Imm())
}

// FenceType is the MISC-MEM instruction word layout: fm[31:28] pred[27:24]
// succ[23:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0].
type FenceType uint32

func newFenceType(pred, succ, funct3, opcode uint32, rd, rs1 Register) FenceType {
	mustFit(pred, 4, "pred")
	mustFit(succ, 4, "succ")
	mustFit(funct3, 3, "funct3")
	mustFit(opcode, 7, "opcode")
	return FenceType(pred<<24 | succ<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode)
}

func (t FenceType) Encode() uint32 { return uint32(t) }
func (t FenceType) Pred() uint32   { return uint32(t) >> 24 & 0xf }
func (t FenceType) Succ() uint32   { return uint32(t) >> 20 & 0xf }

func (t FenceType) String() string {
	return fmt.Sprintf("pred: %#b, succ: %#b", t.Pred(), t.Succ())
}

// ShiftType is the RV64 shift-immediate instruction word layout, whose
// 6-bit shift amount (shamt) occupies the low bits of what would be funct7
// in a 32-bit-only encoding: funct6[31:26] shamt[25:20] rs1 funct3 rd
// opcode.
type ShiftType uint32

func newShiftType(funct6, shamt, funct3, opcode uint32, rd, rs1 Register) ShiftType {
	mustFit(funct6, 6, "funct6")
	mustFit(shamt, 6, "shamt")
	mustFit(funct3, 3, "funct3")
	mustFit(opcode, 7, "opcode")
	return ShiftType(funct6<<26 | shamt<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode)
}

func (t ShiftType) Encode() uint32 { return uint32(t) }
func (t ShiftType) Funct6() uint32 { return uint32(t) >> 26 & 0x3f }
func (t ShiftType) Shamt() uint32  { return uint32(t) >> 20 & 0x3f }
func (t ShiftType) Rs1() Register  { return newRegister(uint32(t) >> 15) }
func (t ShiftType) Rd() Register   { return newRegister(uint32(t) >> 7) }

func (t ShiftType) String() string {
	return fmt.Sprintf("rd: %v, rs1: %v, shamt: %d", t.Rd(), t.Rs1(), t.Shamt())
}

// CsrType is the SYSTEM/CSR register-source instruction word layout:
// csr[31:20] rs1[19:15] funct3[14:12] rd[11:7] opcode[6:0]. No CSR mnemonic
// is part of this library's implemented subset (see decodeSystem); the type
// exists for callers that need to inspect or construct CSR-shaped words
// directly.
type CsrType uint32

// NewCsrType assembles a raw CSR register-source word. funct3 distinguishes
// CSRRW/CSRRS/CSRRC (1/2/3) but this library does not decode them back into
// named instructions.
func NewCsrType(csr, funct3 uint32, rd, rs1 Register) CsrType {
	mustFit(csr, 12, "csr")
	mustFit(funct3, 3, "funct3")
	return CsrType(csr<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opSystem)
}

func (t CsrType) Encode() uint32 { return uint32(t) }
func (t CsrType) Csr() uint32    { return uint32(t) >> 20 }
func (t CsrType) Rs1() Register  { return newRegister(uint32(t) >> 15) }
func (t CsrType) Rd() Register   { return newRegister(uint32(t) >> 7) }

func (t CsrType) String() string {
	return fmt.Sprintf("rd: %v, rs1: %v, csr: %#x", t.Rd(), t.Rs1(), t.Csr())
}

// CsrIType is the SYSTEM/CSR immediate-source instruction word layout:
// csr[31:20] zimm[19:15] funct3[14:12] rd[11:7] opcode[6:0]. As with
// CsrType, no CSRRWI/CSRRSI/CSRRCI mnemonic is decoded by this library.
type CsrIType uint32

// NewCsrIType assembles a raw CSR immediate-source word.
func NewCsrIType(csr, zimm, funct3 uint32, rd Register) CsrIType {
	mustFit(csr, 12, "csr")
	mustFit(zimm, 5, "zimm")
	mustFit(funct3, 3, "funct3")
	return CsrIType(csr<<20 | zimm<<15 | funct3<<12 | uint32(rd)<<7 | opSystem)
}

func (t CsrIType) Encode() uint32 { return uint32(t) }
func (t CsrIType) Csr() uint32    { return uint32(t) >> 20 }
func (t CsrIType) Zimm() uint32   { return uint32(t) >> 15 & 0x1f }
func (t CsrIType) Rd() Register   { return newRegister(uint32(t) >> 7) }

func (t CsrIType) String() string {
	return fmt.Sprintf("rd: %v, zimm: %d, csr: %#x", t.Rd(), t.Zimm(), t.Csr())
}

func mustFit(v uint32, bits uint, name string) {
	if v >= 1<<bits {
		panic(fmt.Sprintf("%s %#x does not fit in %d bits", name, v, bits))
	}
}

func mustFitSigned(v int32, bits uint, name string) {
	lo := -(int32(1) << (bits - 1))
	hi := int32(1) << (bits - 1)
	if v < lo || v >= hi {
		panic(fmt.Sprintf("%s %d out of range [%d, %d)", name, v, lo, hi))
	}
}
