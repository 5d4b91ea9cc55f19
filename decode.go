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

// InstructionLength classifies the byte length of the instruction whose low
// 16 bits are i, per riscv-spec-v2.2 Figure 1.1. It is total: every 16-bit
// pattern maps to a length.
func InstructionLength(i uint16) int {
	switch {
	case i&0x3 != 0x3:
		return 2
	case i&0x1c != 0x1c:
		return 4
	case i&0x3f == 0x1f:
		return 6
	case i&0x7f == 0x3f:
		return 8
	default:
		return 10 + 2*int(i>>12&0x7)
	}
}

// Decode decodes a 32-bit little-endian instruction word into its typed
// Instruction, or reports why it could not be decoded.
func Decode(word uint32) (Instruction, *DecodingError) {
	if word&0x3 != 0x3 {
		return nil, newDecodingError(Unknown, word, "low two bits indicate a compressed encoding")
	}

	opcode := word & 0x7f
	rd := newRegister(word >> 7)
	rs1 := newRegister(word >> 15)
	rs2 := newRegister(word >> 20)
	funct3 := word >> 12 & 0x7
	funct7 := word >> 25 & 0x7f

	switch opcode {
	case opLoad:
		return decodeLoad(word, funct3, rd, rs1)
	case 0x07: // LOAD-FP
		return nil, newDecodingError(Unimplemented, word, "LOAD-FP (F/D extension) is not supported")
	case opMiscMem:
		return decodeMiscMem(word, funct3, rd, rs1)
	case opOpImm:
		return decodeOpImm(word, funct3, rd, rs1)
	case opAuipc:
		return Auipc{UType(word)}, nil
	case opOpImm32:
		return decodeOpImm32(word, funct3, funct7, rd, rs1)
	case opStore:
		return decodeStore(word, funct3, rs1, rs2)
	case 0x27: // STORE-FP
		return nil, newDecodingError(Unimplemented, word, "STORE-FP (F/D extension) is not supported")
	case opAmo:
		return decodeAmo(word, funct3, rd, rs1, rs2)
	case opOp:
		return decodeOp(word, funct3, funct7, rd, rs1, rs2)
	case opLui:
		return Lui{UType(word)}, nil
	case opOp32:
		return decodeOp32(word, funct3, funct7, rd, rs1, rs2)
	case opBranch:
		return decodeBranch(word, funct3, rs1, rs2)
	case opJalr:
		if funct3 != f3Jalr {
			return nil, newDecodingError(Unknown, word, "JALR requires funct3 000")
		}
		return Jalr{IType(word)}, nil
	case opJal:
		return Jal{JType(word)}, nil
	case opSystem:
		return decodeSystem(word, funct3, rd, rs1)
	case 0x0b, 0x2b, 0x5b, 0x7b: // custom-0, custom-1, custom-2/rv128, custom-3/rv128
		return nil, newDecodingError(Custom, word, "opcode reserved for custom extensions")
	case 0x1f: // 48-bit and longer encodings alias into this major opcode region
		return nil, newDecodingError(Reserved, word, "opcode reserved for instructions wider than 32 bits")
	case 0x43, 0x47, 0x4b, 0x4f: // MADD/MSUB/NMSUB/NMADD (F/D extension)
		return nil, newDecodingError(Unimplemented, word, "fused multiply-add (F/D extension) is not supported")
	case 0x53: // OP-FP
		return nil, newDecodingError(Unimplemented, word, "OP-FP (F/D extension) is not supported")
	case 0x57, 0x6b, 0x77: // reserved major opcodes
		return nil, newDecodingError(Reserved, word, "opcode reserved for a future standard extension")
	default:
		return nil, newDecodingError(Unknown, word, "major opcode not recognized")
	}
}

func decodeLoad(word, funct3 uint32, rd, rs1 Register) (Instruction, *DecodingError) {
	i := IType(word)
	switch funct3 {
	case f3Lb:
		return Lb{i}, nil
	case f3Lh:
		return Lh{i}, nil
	case f3Lw:
		return Lw{i}, nil
	case f3Ld:
		return Ld{i}, nil
	case f3Lbu:
		return Lbu{i}, nil
	case f3Lhu:
		return Lhu{i}, nil
	case f3Lwu:
		return Lwu{i}, nil
	default: // funct3 111
		return nil, newDecodingError(Reserved, word, "LOAD funct3 111 is reserved")
	}
}

func decodeMiscMem(word, funct3 uint32, rd, rs1 Register) (Instruction, *DecodingError) {
	if funct3 != f3Fence {
		return nil, newDecodingError(Unimplemented, word, "FENCE.I and other MISC-MEM funct3 codes are not supported")
	}
	return Fence{FenceType(word)}, nil
}

func decodeOpImm(word, funct3 uint32, rd, rs1 Register) (Instruction, *DecodingError) {
	i := IType(word)
	switch funct3 {
	case f3Addi:
		return Addi{i}, nil
	case f3Slti:
		return Slti{i}, nil
	case f3Sltiu:
		return Sltiu{i}, nil
	case f3Xori:
		return Xori{i}, nil
	case f3Ori:
		return Ori{i}, nil
	case f3Andi:
		return Andi{i}, nil
	case f3Slli:
		s := ShiftType(word)
		if s.Funct6() != f6Slli {
			return nil, newDecodingError(Unknown, word, "SLLI requires funct6 000000")
		}
		return Slli{s}, nil
	case f3SrliSrai:
		s := ShiftType(word)
		switch s.Funct6() {
		case f6Srli:
			return Srli{s}, nil
		case f6Srai:
			return Srai{s}, nil
		default:
			return nil, newDecodingError(Unknown, word, "OP-IMM funct3 101 requires funct6 000000 or 010000")
		}
	}
	return nil, newDecodingError(Unknown, word, "unreachable OP-IMM funct3")
}

func decodeOpImm32(word, funct3, funct7 uint32, rd, rs1 Register) (Instruction, *DecodingError) {
	switch funct3 {
	case f3Addi:
		return Addiw{IType(word)}, nil
	case f3Slli:
		if funct7 != f7SllSllw {
			return nil, newDecodingError(Unknown, word, "SLLIW requires funct7 0000000")
		}
		return Slliw{ShiftType(word)}, nil
	case f3SrliSrai:
		switch funct7 {
		case f7SrlSrlw:
			return Srliw{ShiftType(word)}, nil
		case f7SraSraw:
			return Sraiw{ShiftType(word)}, nil
		default:
			return nil, newDecodingError(Unknown, word, "OP-IMM-32 funct3 101 requires funct7 0000000 or 0100000")
		}
	}
	return nil, newDecodingError(Unknown, word, "unreachable OP-IMM-32 funct3")
}

func decodeStore(word, funct3 uint32, rs1, rs2 Register) (Instruction, *DecodingError) {
	s := SType(word)
	switch funct3 {
	case f3Sb:
		return Sb{s}, nil
	case f3Sh:
		return Sh{s}, nil
	case f3Sw:
		return Sw{s}, nil
	case f3Sd:
		return Sd{s}, nil
	default:
		return nil, newDecodingError(Reserved, word, "STORE funct3 100-111 are reserved")
	}
}

func decodeBranch(word, funct3 uint32, rs1, rs2 Register) (Instruction, *DecodingError) {
	b := BType(word)
	switch funct3 {
	case f3Beq:
		return Beq{b}, nil
	case f3Bne:
		return Bne{b}, nil
	case f3Blt:
		return Blt{b}, nil
	case f3Bge:
		return Bge{b}, nil
	case f3Bltu:
		return Bltu{b}, nil
	case f3Bgeu:
		return Bgeu{b}, nil
	default:
		return nil, newDecodingError(Reserved, word, "BRANCH funct3 010 and 011 are reserved")
	}
}

func decodeOp(word, funct3, funct7 uint32, rd, rs1, rs2 Register) (Instruction, *DecodingError) {
	r := RType(word)
	switch {
	case funct7 == f7AddAddw && funct3 == f3AddAddw:
		return Add{r}, nil
	case funct7 == f7SubSubw && funct3 == f3AddAddw:
		return Sub{r}, nil
	case funct7 == f7SllSllw && funct3 == f3SllSllw:
		return Sll{r}, nil
	case funct7 == f7Slt && funct3 == f3Slt:
		return Slt{r}, nil
	case funct7 == f7Sltu && funct3 == f3Sltu:
		return Sltu{r}, nil
	case funct7 == f7Xor && funct3 == f3Xor:
		return Xor{r}, nil
	case funct7 == f7SrlSrlw && funct3 == f3SrlSrlw:
		return Srl{r}, nil
	case funct7 == f7SraSraw && funct3 == f3SrlSrlw:
		return Sra{r}, nil
	case funct7 == f7Or && funct3 == f3Or:
		return Or{r}, nil
	case funct7 == f7And && funct3 == f3And:
		return And{r}, nil
	case funct7 == f7MulMulw && funct3 == f3MulMulw:
		return Mul{r}, nil
	case funct7 == f7Mulh && funct3 == f3Mulh:
		return Mulh{r}, nil
	case funct7 == f7Mulhsu && funct3 == f3Mulhsu:
		return Mulhsu{r}, nil
	case funct7 == f7Mulhu && funct3 == f3Mulhu:
		return Mulhu{r}, nil
	case funct7 == f7DivDivw && funct3 == f3DivDivw:
		return Div{r}, nil
	case funct7 == f7DivuDivuw && funct3 == f3DivuDivuw:
		return Divu{r}, nil
	case funct7 == f7RemRemw && funct3 == f3RemRemw:
		return Rem{r}, nil
	case funct7 == f7RemuRemuw && funct3 == f3RemuRemuw:
		return Remu{r}, nil
	default:
		return nil, newDecodingError(Unknown, word, "OP funct3/funct7 combination not defined")
	}
}

func decodeOp32(word, funct3, funct7 uint32, rd, rs1, rs2 Register) (Instruction, *DecodingError) {
	r := RType(word)
	switch {
	case funct7 == f7AddAddw && funct3 == f3AddAddw:
		return Addw{r}, nil
	case funct7 == f7SubSubw && funct3 == f3AddAddw:
		return Subw{r}, nil
	case funct7 == f7SllSllw && funct3 == f3SllSllw:
		return Sllw{r}, nil
	case funct7 == f7SrlSrlw && funct3 == f3SrlSrlw:
		return Srlw{r}, nil
	case funct7 == f7SraSraw && funct3 == f3SrlSrlw:
		return Sraw{r}, nil
	case funct7 == f7MulMulw && funct3 == f3MulMulw:
		return Mulw{r}, nil
	case funct7 == f7DivDivw && funct3 == f3DivDivw:
		return Divw{r}, nil
	case funct7 == f7DivuDivuw && funct3 == f3DivuDivuw:
		return Divuw{r}, nil
	case funct7 == f7RemRemw && funct3 == f3RemRemw:
		return Remw{r}, nil
	case funct7 == f7RemuRemuw && funct3 == f3RemuRemuw:
		return Remuw{r}, nil
	default:
		return nil, newDecodingError(Unknown, word, "OP-32 funct3/funct7 combination not defined")
	}
}

func decodeAmo(word, funct3 uint32, rd, rs1, rs2 Register) (Instruction, *DecodingError) {
	if funct3 != f3Amo32 && funct3 != f3Amo64 {
		return nil, newDecodingError(Unknown, word, "AMO requires funct3 010 (.w) or 011 (.d)")
	}
	funct5 := word >> 27 & 0x1f
	r := RType(word)
	is64 := funct3 == f3Amo64
	switch funct5 {
	case f5LrLd:
		if is64 {
			return Lrd{r}, nil
		}
		return Lrw{r}, nil
	case f5ScSd:
		if is64 {
			return Scd{r}, nil
		}
		return Scw{r}, nil
	case f5AmoswapAmoswd:
		if is64 {
			return Amoswapd{r}, nil
		}
		return Amoswapw{r}, nil
	case f5AmoaddAmoadd:
		if is64 {
			return Amoaddd{r}, nil
		}
		return Amoaddw{r}, nil
	case f5AmoxorAmoxor:
		if is64 {
			return Amoxord{r}, nil
		}
		return Amoxorw{r}, nil
	case f5AmoandAmoand:
		if is64 {
			return Amoandd{r}, nil
		}
		return Amoandw{r}, nil
	case f5AmoorAmoor:
		if is64 {
			return Amoord{r}, nil
		}
		return Amoorw{r}, nil
	case f5AmominAmomin:
		if is64 {
			return Amomind{r}, nil
		}
		return Amominw{r}, nil
	case f5AmomaxAmomax:
		if is64 {
			return Amomaxd{r}, nil
		}
		return Amomaxw{r}, nil
	case f5AmominuAmominu:
		if is64 {
			return Amominud{r}, nil
		}
		return Amominuw{r}, nil
	case f5AmomaxuAmomaxu:
		if is64 {
			return Amomaxud{r}, nil
		}
		return Amomaxuw{r}, nil
	default:
		return nil, newDecodingError(Unknown, word, "AMO funct5 not defined")
	}
}

// decodeSystem recognizes only ECALL and EBREAK. CSR access instructions
// (funct3 001-011, 101-111) are defined by the ISA but fall outside the
// RISC-U-plus-extensions subset this library implements: no CSR/system-mode
// support beyond ECALL/EBREAK recognition.
func decodeSystem(word, funct3 uint32, rd, rs1 Register) (Instruction, *DecodingError) {
	if funct3 != f3System {
		return nil, newDecodingError(Unimplemented, word, "CSR access instructions are not supported")
	}
	switch word {
	case 0x00000073:
		return Ecall{IType(word)}, nil
	case 0x00100073:
		return Ebreak{IType(word)}, nil
	default:
		return nil, newDecodingError(Unimplemented, word, "SYSTEM funct3 000 beyond ECALL/EBREAK is not supported")
	}
}
