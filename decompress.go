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

// rvcRegOffset maps a 3-bit compressed register field to its full 5-bit
// register number: RVC's eight "popular" registers are x8-x15.
const rvcRegOffset = 8

func decodeCR(in uint16) (rdRs1, rs2 Register) {
	return newRegister(uint32(in) >> 7 & 0x1f), newRegister(uint32(in) >> 2 & 0x1f)
}

func decodeCI(in uint16) (imm uint32, rd Register) {
	return uint32(in)>>7&0x20 | uint32(in)>>2&0x1f, newRegister(uint32(in) >> 7 & 0x1f)
}

func decodeCSS(in uint16) (imm uint32, rs2 Register) {
	return uint32(in) >> 7 & 0x3f, newRegister(uint32(in) >> 2 & 0x1f)
}

func decodeCIW(in uint16) (imm uint32, rd Register) {
	return uint32(in) >> 5 & 0xff, newRegister(uint32(in)>>2&0x7 + rvcRegOffset)
}

func decodeCL(in uint16) (imm uint32, rs1, rd Register) {
	imm = uint32(in)>>8&0x1c | uint32(in)>>5&0x3
	return imm, newRegister(uint32(in)>>7&0x7 + rvcRegOffset), newRegister(uint32(in)>>2&0x7 + rvcRegOffset)
}

func decodeCS(in uint16) (imm uint32, rs1, rs2 Register) {
	imm = uint32(in)>>8&0x1c | uint32(in)>>5&0x3
	return imm, newRegister(uint32(in)>>7&0x7 + rvcRegOffset), newRegister(uint32(in)>>2&0x7 + rvcRegOffset)
}

func decodeCB(in uint16) (imm uint32, rs1 Register) {
	return uint32(in)>>5&0xe0 | uint32(in)>>2&0x1f, newRegister(uint32(in)>>7&0x7 + rvcRegOffset)
}

// decodeShiftCB decodes the CB encoding used by C.SRLI/C.SRAI/C.ANDI, whose
// 6-bit field splits a single bit into funct-space bit 12.
func decodeShiftCB(in uint16) (raw uint32, rdRs1 Register) {
	return uint32(in)&0x1000>>7 | uint32(in)>>2&0x1f, newRegister(uint32(in)>>7&0x7 + rvcRegOffset)
}

func decodeCJ(in uint16) uint32 {
	return uint32(in) >> 2 & 0x7ff
}

// Decompress expands a 16-bit RVC instruction word into its full 32-bit
// equivalent Instruction, per riscv-spec-v2.2 Table 12.5 (pages 82-83).
func Decompress(in uint16) (Instruction, *DecodingError) {
	if in == 0 {
		return nil, newDecodingError(Illegal, uint32(in), "the all-zero compressed word is illegal")
	}

	switch uint32(in)>>11&0x1c | uint32(in)&0x3 {
	case 0x00: // C.ADDI4SPN
		raw, rd := decodeCIW(in)
		imm := invPermute32(raw, []int{5, 4, 9, 8, 7, 6, 2, 3})
		if imm == 0 {
			return nil, newDecodingError(Reserved, uint32(in), "C.ADDI4SPN with nzuimm == 0 is reserved")
		}
		return NewAddi(rd, Sp, int32(imm)), nil
	case 0x04: // C.FLD (RV32/64); C.LQ (RV128)
		return nil, newDecodingError(Unimplemented, uint32(in), "C.FLD/C.LQ (the F/D standard extension) is not supported")
	case 0x08: // C.LW
		raw, rs1, rd := decodeCL(in)
		imm := invPermute32(raw, []int{5, 4, 3, 2, 6})
		return NewLw(rd, rs1, int32(imm)), nil
	case 0x0c: // C.LD
		raw, rs1, rd := decodeCL(in)
		imm := invPermute32(raw, []int{5, 4, 3, 7, 6})
		return NewLd(rd, rs1, int32(imm)), nil
	case 0x10:
		return nil, newDecodingError(Reserved, uint32(in), "quadrant 0 funct3 100 is reserved")
	case 0x14: // C.FSD (RV32/64); C.SQ (RV128)
		return nil, newDecodingError(Unimplemented, uint32(in), "C.FSD/C.SQ (the F/D standard extension) is not supported")
	case 0x18: // C.SW
		raw, rs1, rs2 := decodeCS(in)
		imm := invPermute32(raw, []int{5, 4, 3, 2, 6})
		return NewSw(rs1, rs2, int32(imm)), nil
	case 0x1c: // C.SD
		raw, rs1, rs2 := decodeCS(in)
		imm := invPermute32(raw, []int{5, 4, 3, 7, 6})
		return NewSd(rs1, rs2, int32(imm)), nil

	case 0x01: // C.NOP; C.ADDI (HINT, nzimm=0)
		raw, rd := decodeCI(in)
		return NewAddi(rd, rd, signExtend32(raw, 6)), nil
	case 0x05: // C.ADDIW (RES, rd=0)
		raw, rd := decodeCI(in)
		if rd == Zero {
			return nil, newDecodingError(Reserved, uint32(in), "C.ADDIW with rd == 0 is reserved")
		}
		return NewAddiw(rd, rd, signExtend32(raw, 6)), nil
	case 0x09: // C.LI (HINT, rd=0)
		raw, rd := decodeCI(in)
		return NewAddi(rd, Zero, signExtend32(raw, 6)), nil
	case 0x0d: // C.ADDI16SP (RES, nzimm=0); C.LUI (RES, nzimm=0; HINT, rd=0)
		raw, rd := decodeCI(in)
		if rd == Sp {
			imm := signExtend32(invPermute32(raw, []int{9, 4, 6, 8, 7, 5}), 10)
			if imm == 0 {
				return nil, newDecodingError(Reserved, uint32(in), "C.ADDI16SP with nzimm == 0 is reserved")
			}
			return NewAddi(Sp, Sp, imm), nil
		}
		imm := signExtend32(raw, 6)
		if imm == 0 {
			return nil, newDecodingError(Reserved, uint32(in), "C.LUI with nzimm == 0 is reserved")
		}
		return NewLui(rd, imm&0xfffff), nil
	case 0x11:
		switch uint32(in) >> 10 & 0x3 {
		case 0x0: // C.SRLI
			shamt, rd := decodeShiftCB(in)
			return NewSrli(rd, rd, shamt), nil
		case 0x1: // C.SRAI
			shamt, rd := decodeShiftCB(in)
			return NewSrai(rd, rd, shamt), nil
		case 0x2: // C.ANDI
			raw, rd := decodeShiftCB(in)
			return NewAndi(rd, rd, signExtend32(raw, 6)), nil
		}
		_, rd, rs2 := decodeCS(in)
		switch uint32(in)>>8&0x1c | uint32(in)>>5&0x3 {
		case 0xc: // C.SUB
			return NewSub(rd, rd, rs2), nil
		case 0xd: // C.XOR
			return NewXor(rd, rd, rs2), nil
		case 0xe: // C.OR
			return NewOr(rd, rd, rs2), nil
		case 0xf: // C.AND
			return NewAnd(rd, rd, rs2), nil
		case 0x1c: // C.SUBW
			return NewSubw(rd, rd, rs2), nil
		case 0x1d: // C.ADDW
			return NewAddw(rd, rd, rs2), nil
		default: // 0x1e, 0x1f
			return nil, newDecodingError(Reserved, uint32(in), "quadrant 1 funct6 11111x is reserved")
		}
	case 0x15: // C.J
		raw := decodeCJ(in)
		imm := signExtend32(invPermute32(raw, []int{11, 4, 9, 8, 10, 6, 7, 3, 2, 1, 5}), 12)
		return NewJal(Zero, imm), nil
	case 0x19: // C.BEQZ
		raw, rs1 := decodeCB(in)
		imm := signExtend32(invPermute32(raw, []int{8, 4, 3, 7, 6, 2, 1, 5}), 9)
		return NewBeq(rs1, Zero, imm), nil
	case 0x1d: // C.BNEZ
		raw, rs1 := decodeCB(in)
		imm := signExtend32(invPermute32(raw, []int{8, 4, 3, 7, 6, 2, 1, 5}), 9)
		return NewBne(rs1, Zero, imm), nil

	case 0x02: // C.SLLI (HINT, rd=0)
		raw, rd := decodeCI(in)
		return NewSlli(rd, rd, raw), nil
	case 0x06: // C.FLDSP (RV32/64); C.LQSP (RV128)
		return nil, newDecodingError(Unimplemented, uint32(in), "C.FLDSP/C.LQSP (the F/D standard extension) is not supported")
	case 0x0a: // C.LWSP (RES, rd=0)
		raw, rd := decodeCI(in)
		if rd == Zero {
			return nil, newDecodingError(Reserved, uint32(in), "C.LWSP with rd == 0 is reserved")
		}
		imm := invPermute32(raw, []int{5, 4, 3, 2, 7, 6})
		return NewLw(rd, Sp, int32(imm)), nil
	case 0x0e: // C.LDSP (RES, rd=0)
		raw, rd := decodeCI(in)
		if rd == Zero {
			return nil, newDecodingError(Reserved, uint32(in), "C.LDSP with rd == 0 is reserved")
		}
		imm := invPermute32(raw, []int{5, 4, 3, 8, 7, 6})
		return NewLd(rd, Sp, int32(imm)), nil
	case 0x12:
		rdRs1, rs2 := decodeCR(in)
		bit12 := in&0x1000 != 0
		switch {
		case !bit12 && rs2 == Zero: // C.JR
			if rdRs1 == Zero {
				return nil, newDecodingError(Reserved, uint32(in), "C.JR with rs1 == 0 is reserved")
			}
			return NewJalr(Zero, rdRs1, 0), nil
		case !bit12: // C.MV
			return NewAdd(rdRs1, Zero, rs2), nil
		case bit12 && rdRs1 == Zero && rs2 == Zero: // C.EBREAK
			return NewEbreak(), nil
		case bit12 && rs2 == Zero: // C.JALR
			return NewJalr(Ra, rdRs1, 0), nil
		default: // C.ADD
			return NewAdd(rdRs1, rdRs1, rs2), nil
		}
	case 0x16: // C.FSDSP (RV32/64); C.SQSP (RV128)
		return nil, newDecodingError(Unimplemented, uint32(in), "C.FSDSP/C.SQSP (the F/D standard extension) is not supported")
	case 0x1a: // C.SWSP
		raw, rs2 := decodeCSS(in)
		imm := invPermute32(raw, []int{5, 4, 3, 2, 7, 6})
		return NewSw(Sp, rs2, int32(imm)), nil
	case 0x1e: // C.SDSP
		raw, rs2 := decodeCSS(in)
		imm := invPermute32(raw, []int{5, 4, 3, 8, 7, 6})
		return NewSd(Sp, rs2, int32(imm)), nil
	}

	return nil, newDecodingError(Unknown, uint32(in), "unrecognized compressed instruction")
}
