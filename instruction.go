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

// Instruction is implemented by every decoded or hand-constructed RISC-V
// instruction variant. Each concrete type embeds the format value type that
// carries its fields; Encode is promoted from that embedded value, so two
// instructions compare equal with == iff their 32-bit encodings match.
type Instruction interface {
	Encode() uint32
}

// Instruction variants, grouped as in the ISA manual. Each wraps the format
// value type matching its instruction word layout; field accessors (Rd,
// Rs1, Rs2, Imm, ...) are promoted from the embedded type.
type (
	Lui   struct{ UType }
	Auipc struct{ UType }
	Jal   struct{ JType }
	Jalr  struct{ IType }

	Beq  struct{ BType }
	Bne  struct{ BType }
	Blt  struct{ BType }
	Bge  struct{ BType }
	Bltu struct{ BType }
	Bgeu struct{ BType }

	Lb  struct{ IType }
	Lh  struct{ IType }
	Lw  struct{ IType }
	Ld  struct{ IType }
	Lbu struct{ IType }
	Lhu struct{ IType }
	Lwu struct{ IType }

	Sb struct{ SType }
	Sh struct{ SType }
	Sw struct{ SType }
	Sd struct{ SType }

	Fence struct{ FenceType }

	Addi     struct{ IType }
	Slti     struct{ IType }
	Sltiu    struct{ IType }
	Xori     struct{ IType }
	Ori      struct{ IType }
	Andi     struct{ IType }
	Slli     struct{ ShiftType }
	Srli     struct{ ShiftType }
	Srai     struct{ ShiftType }

	Addiw struct{ IType }
	Slliw struct{ ShiftType }
	Srliw struct{ ShiftType }
	Sraiw struct{ ShiftType }

	Add  struct{ RType }
	Sub  struct{ RType }
	Sll  struct{ RType }
	Slt  struct{ RType }
	Sltu struct{ RType }
	Xor  struct{ RType }
	Srl  struct{ RType }
	Sra  struct{ RType }
	Or   struct{ RType }
	And  struct{ RType }

	Mul    struct{ RType }
	Mulh   struct{ RType }
	Mulhsu struct{ RType }
	Mulhu  struct{ RType }
	Div    struct{ RType }
	Divu   struct{ RType }
	Rem    struct{ RType }
	Remu   struct{ RType }

	Addw  struct{ RType }
	Subw  struct{ RType }
	Sllw  struct{ RType }
	Srlw  struct{ RType }
	Sraw  struct{ RType }
	Mulw  struct{ RType }
	Divw  struct{ RType }
	Divuw struct{ RType }
	Remw  struct{ RType }
	Remuw struct{ RType }

	Ecall  struct{ IType }
	Ebreak struct{ IType }

	Lrw       struct{ RType }
	Scw       struct{ RType }
	Amoswapw  struct{ RType }
	Amoaddw   struct{ RType }
	Amoxorw   struct{ RType }
	Amoandw   struct{ RType }
	Amoorw    struct{ RType }
	Amominw   struct{ RType }
	Amomaxw   struct{ RType }
	Amominuw  struct{ RType }
	Amomaxuw  struct{ RType }
	Lrd       struct{ RType }
	Scd       struct{ RType }
	Amoswapd  struct{ RType }
	Amoaddd   struct{ RType }
	Amoxord   struct{ RType }
	Amoandd   struct{ RType }
	Amoord    struct{ RType }
	Amomind   struct{ RType }
	Amomaxd   struct{ RType }
	Amominud  struct{ RType }
	Amomaxud  struct{ RType }
)

// opcodes (7 bits); riscv-spec-v2.2, Table 19.1.
const (
	opLoad    = 0x03 // 0000011
	opMiscMem = 0x0f // 0001111
	opOpImm   = 0x13 // 0010011
	opAuipc   = 0x17 // 0010111
	opOpImm32 = 0x1b // 0011011
	opStore   = 0x23 // 0100011
	opAmo     = 0x2f // 0101111
	opOp      = 0x33 // 0110011
	opLui     = 0x37 // 0110111
	opOp32    = 0x3b // 0111011
	opBranch  = 0x63 // 1100011
	opJalr    = 0x67 // 1100111
	opJal     = 0x6f // 1101111
	opSystem  = 0x73 // 1110011
)

// funct3 codes shared by the constructors and the decoder.
const (
	f3Jalr                  = 0x0
	f3Beq, f3Bne            = 0x0, 0x1
	f3Blt, f3Bge            = 0x4, 0x5
	f3Bltu, f3Bgeu          = 0x6, 0x7
	f3Lb, f3Lh, f3Lw, f3Ld  = 0x0, 0x1, 0x2, 0x3
	f3Lbu, f3Lhu, f3Lwu     = 0x4, 0x5, 0x6
	f3Sb, f3Sh, f3Sw, f3Sd  = 0x0, 0x1, 0x2, 0x3
	f3Fence                 = 0x0
	f3Addi, f3Slti, f3Sltiu = 0x0, 0x2, 0x3
	f3Xori, f3Ori, f3Andi   = 0x4, 0x6, 0x7
	f3Slli                  = 0x1
	f3SrliSrai              = 0x5
	f3AddAddw               = 0x0
	f3SllSllw               = 0x1
	f3Slt                   = 0x2
	f3Sltu                  = 0x3
	f3Xor                   = 0x4
	f3SrlSrlw               = 0x5
	f3Or                    = 0x6
	f3And                   = 0x7
	f3MulMulw               = 0x0
	f3Mulh                  = 0x1
	f3Mulhsu                = 0x2
	f3Mulhu                 = 0x3
	f3DivDivw               = 0x4
	f3DivuDivuw             = 0x5
	f3RemRemw               = 0x6
	f3RemuRemuw             = 0x7
	f3System                = 0x0
	f3Amo32                 = 0x2
	f3Amo64                 = 0x3
)

// funct6/funct7 codes for the OP / OP-32 / AMO matrices.
const (
	f7AddAddw    = 0x00
	f7SubSubw    = 0x20
	f7SllSllw    = 0x00
	f7Slt        = 0x00
	f7Sltu       = 0x00
	f7Xor        = 0x00
	f7SrlSrlw    = 0x00
	f7SraSraw    = 0x20
	f7Or         = 0x00
	f7And        = 0x00
	f7MulMulw    = 0x01
	f7Mulh       = 0x01
	f7Mulhsu     = 0x01
	f7Mulhu      = 0x01
	f7DivDivw    = 0x01
	f7DivuDivuw  = 0x01
	f7RemRemw    = 0x01
	f7RemuRemuw  = 0x01

	f6Slli = 0x00
	f6Srli = 0x00
	f6Srai = 0x10

	f5LrLd          = 0x02
	f5ScSd          = 0x03
	f5AmoswapAmoswd = 0x01
	f5AmoaddAmoadd  = 0x00
	f5AmoxorAmoxor  = 0x04
	f5AmoandAmoand  = 0x0c
	f5AmoorAmoor    = 0x08
	f5AmominAmomin  = 0x10
	f5AmomaxAmomax  = 0x14
	f5AmominuAmominu = 0x18
	f5AmomaxuAmomaxu = 0x1c
)

// NewNop returns the canonical encoding for a no-op (addi x0, x0, 0).
func NewNop() Addi { return NewAddi(Zero, Zero, 0) }

func NewLui(rd Register, imm int32) Lui     { return Lui{newUType(imm, opLui, rd)} }
func NewAuipc(rd Register, imm int32) Auipc { return Auipc{newUType(imm, opAuipc, rd)} }
func NewJal(rd Register, imm int32) Jal     { return Jal{newJType(imm, opJal, rd)} }
func NewJalr(rd, rs1 Register, imm int32) Jalr {
	return Jalr{newIType(imm, f3Jalr, opJalr, rd, rs1)}
}

func NewBeq(rs1, rs2 Register, imm int32) Beq   { return Beq{newBType(imm, f3Beq, opBranch, rs1, rs2)} }
func NewBne(rs1, rs2 Register, imm int32) Bne   { return Bne{newBType(imm, f3Bne, opBranch, rs1, rs2)} }
func NewBlt(rs1, rs2 Register, imm int32) Blt   { return Blt{newBType(imm, f3Blt, opBranch, rs1, rs2)} }
func NewBge(rs1, rs2 Register, imm int32) Bge   { return Bge{newBType(imm, f3Bge, opBranch, rs1, rs2)} }
func NewBltu(rs1, rs2 Register, imm int32) Bltu { return Bltu{newBType(imm, f3Bltu, opBranch, rs1, rs2)} }
func NewBgeu(rs1, rs2 Register, imm int32) Bgeu { return Bgeu{newBType(imm, f3Bgeu, opBranch, rs1, rs2)} }

func NewLb(rd, rs1 Register, imm int32) Lb   { return Lb{newIType(imm, f3Lb, opLoad, rd, rs1)} }
func NewLh(rd, rs1 Register, imm int32) Lh   { return Lh{newIType(imm, f3Lh, opLoad, rd, rs1)} }
func NewLw(rd, rs1 Register, imm int32) Lw   { return Lw{newIType(imm, f3Lw, opLoad, rd, rs1)} }
func NewLd(rd, rs1 Register, imm int32) Ld   { return Ld{newIType(imm, f3Ld, opLoad, rd, rs1)} }
func NewLbu(rd, rs1 Register, imm int32) Lbu { return Lbu{newIType(imm, f3Lbu, opLoad, rd, rs1)} }
func NewLhu(rd, rs1 Register, imm int32) Lhu { return Lhu{newIType(imm, f3Lhu, opLoad, rd, rs1)} }
func NewLwu(rd, rs1 Register, imm int32) Lwu { return Lwu{newIType(imm, f3Lwu, opLoad, rd, rs1)} }

func NewSb(rs1, rs2 Register, imm int32) Sb { return Sb{newSType(imm, f3Sb, opStore, rs1, rs2)} }
func NewSh(rs1, rs2 Register, imm int32) Sh { return Sh{newSType(imm, f3Sh, opStore, rs1, rs2)} }
func NewSw(rs1, rs2 Register, imm int32) Sw { return Sw{newSType(imm, f3Sw, opStore, rs1, rs2)} }
func NewSd(rs1, rs2 Register, imm int32) Sd { return Sd{newSType(imm, f3Sd, opStore, rs1, rs2)} }

// NewFence encodes a FENCE with the given predecessor/successor bitmasks
// (each a 4-bit combination of iorw: 8=I, 4=O, 2=R, 1=W).
func NewFence(pred, succ uint32) Fence {
	return Fence{newFenceType(pred, succ, f3Fence, opMiscMem, Zero, Zero)}
}

func NewAddi(rd, rs1 Register, imm int32) Addi   { return Addi{newIType(imm, f3Addi, opOpImm, rd, rs1)} }
func NewSlti(rd, rs1 Register, imm int32) Slti   { return Slti{newIType(imm, f3Slti, opOpImm, rd, rs1)} }
func NewSltiu(rd, rs1 Register, imm int32) Sltiu { return Sltiu{newIType(imm, f3Sltiu, opOpImm, rd, rs1)} }
func NewXori(rd, rs1 Register, imm int32) Xori   { return Xori{newIType(imm, f3Xori, opOpImm, rd, rs1)} }
func NewOri(rd, rs1 Register, imm int32) Ori     { return Ori{newIType(imm, f3Ori, opOpImm, rd, rs1)} }
func NewAndi(rd, rs1 Register, imm int32) Andi   { return Andi{newIType(imm, f3Andi, opOpImm, rd, rs1)} }
func NewSlli(rd, rs1 Register, shamt uint32) Slli {
	return Slli{newShiftType(f6Slli, shamt, f3Slli, opOpImm, rd, rs1)}
}
func NewSrli(rd, rs1 Register, shamt uint32) Srli {
	return Srli{newShiftType(f6Srli, shamt, f3SrliSrai, opOpImm, rd, rs1)}
}
func NewSrai(rd, rs1 Register, shamt uint32) Srai {
	return Srai{newShiftType(f6Srai, shamt, f3SrliSrai, opOpImm, rd, rs1)}
}

func NewAddiw(rd, rs1 Register, imm int32) Addiw {
	return Addiw{newIType(imm, f3Addi, opOpImm32, rd, rs1)}
}
func NewSlliw(rd, rs1 Register, shamt uint32) Slliw {
	return Slliw{newShiftType(f6Slli, shamt, f3Slli, opOpImm32, rd, rs1)}
}
func NewSrliw(rd, rs1 Register, shamt uint32) Srliw {
	return Srliw{newShiftType(f6Srli, shamt, f3SrliSrai, opOpImm32, rd, rs1)}
}
func NewSraiw(rd, rs1 Register, shamt uint32) Sraiw {
	return Sraiw{newShiftType(f6Srai, shamt, f3SrliSrai, opOpImm32, rd, rs1)}
}

func NewAdd(rd, rs1, rs2 Register) Add   { return Add{newRType(f7AddAddw, f3AddAddw, opOp, rd, rs1, rs2)} }
func NewSub(rd, rs1, rs2 Register) Sub   { return Sub{newRType(f7SubSubw, f3AddAddw, opOp, rd, rs1, rs2)} }
func NewSll(rd, rs1, rs2 Register) Sll   { return Sll{newRType(f7SllSllw, f3SllSllw, opOp, rd, rs1, rs2)} }
func NewSlt(rd, rs1, rs2 Register) Slt   { return Slt{newRType(f7Slt, f3Slt, opOp, rd, rs1, rs2)} }
func NewSltu(rd, rs1, rs2 Register) Sltu { return Sltu{newRType(f7Sltu, f3Sltu, opOp, rd, rs1, rs2)} }
func NewXor(rd, rs1, rs2 Register) Xor   { return Xor{newRType(f7Xor, f3Xor, opOp, rd, rs1, rs2)} }
func NewSrl(rd, rs1, rs2 Register) Srl   { return Srl{newRType(f7SrlSrlw, f3SrlSrlw, opOp, rd, rs1, rs2)} }
func NewSra(rd, rs1, rs2 Register) Sra   { return Sra{newRType(f7SraSraw, f3SrlSrlw, opOp, rd, rs1, rs2)} }
func NewOr(rd, rs1, rs2 Register) Or     { return Or{newRType(f7Or, f3Or, opOp, rd, rs1, rs2)} }
func NewAnd(rd, rs1, rs2 Register) And   { return And{newRType(f7And, f3And, opOp, rd, rs1, rs2)} }

func NewMul(rd, rs1, rs2 Register) Mul       { return Mul{newRType(f7MulMulw, f3MulMulw, opOp, rd, rs1, rs2)} }
func NewMulh(rd, rs1, rs2 Register) Mulh     { return Mulh{newRType(f7Mulh, f3Mulh, opOp, rd, rs1, rs2)} }
func NewMulhsu(rd, rs1, rs2 Register) Mulhsu { return Mulhsu{newRType(f7Mulhsu, f3Mulhsu, opOp, rd, rs1, rs2)} }
func NewMulhu(rd, rs1, rs2 Register) Mulhu   { return Mulhu{newRType(f7Mulhu, f3Mulhu, opOp, rd, rs1, rs2)} }
func NewDiv(rd, rs1, rs2 Register) Div       { return Div{newRType(f7DivDivw, f3DivDivw, opOp, rd, rs1, rs2)} }
func NewDivu(rd, rs1, rs2 Register) Divu     { return Divu{newRType(f7DivuDivuw, f3DivuDivuw, opOp, rd, rs1, rs2)} }
func NewRem(rd, rs1, rs2 Register) Rem       { return Rem{newRType(f7RemRemw, f3RemRemw, opOp, rd, rs1, rs2)} }
func NewRemu(rd, rs1, rs2 Register) Remu     { return Remu{newRType(f7RemuRemuw, f3RemuRemuw, opOp, rd, rs1, rs2)} }

func NewAddw(rd, rs1, rs2 Register) Addw { return Addw{newRType(f7AddAddw, f3AddAddw, opOp32, rd, rs1, rs2)} }
func NewSubw(rd, rs1, rs2 Register) Subw { return Subw{newRType(f7SubSubw, f3AddAddw, opOp32, rd, rs1, rs2)} }
func NewSllw(rd, rs1, rs2 Register) Sllw { return Sllw{newRType(f7SllSllw, f3SllSllw, opOp32, rd, rs1, rs2)} }
func NewSrlw(rd, rs1, rs2 Register) Srlw { return Srlw{newRType(f7SrlSrlw, f3SrlSrlw, opOp32, rd, rs1, rs2)} }
func NewSraw(rd, rs1, rs2 Register) Sraw { return Sraw{newRType(f7SraSraw, f3SrlSrlw, opOp32, rd, rs1, rs2)} }
func NewMulw(rd, rs1, rs2 Register) Mulw { return Mulw{newRType(f7MulMulw, f3MulMulw, opOp32, rd, rs1, rs2)} }
func NewDivw(rd, rs1, rs2 Register) Divw { return Divw{newRType(f7DivDivw, f3DivDivw, opOp32, rd, rs1, rs2)} }
func NewDivuw(rd, rs1, rs2 Register) Divuw {
	return Divuw{newRType(f7DivuDivuw, f3DivuDivuw, opOp32, rd, rs1, rs2)}
}
func NewRemw(rd, rs1, rs2 Register) Remw { return Remw{newRType(f7RemRemw, f3RemRemw, opOp32, rd, rs1, rs2)} }
func NewRemuw(rd, rs1, rs2 Register) Remuw {
	return Remuw{newRType(f7RemuRemuw, f3RemuRemuw, opOp32, rd, rs1, rs2)}
}

func NewEcall() Ecall   { return Ecall{newIType(0, f3System, opSystem, Zero, Zero)} }
func NewEbreak() Ebreak { return Ebreak{newIType(1, f3System, opSystem, Zero, Zero)} }

func NewLrw(rd, rs1 Register) Lrw { return Lrw{newRType(f5LrLd<<2, f3Amo32, opAmo, rd, rs1, Zero)} }
func NewScw(rd, rs1, rs2 Register) Scw {
	return Scw{newRType(f5ScSd<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmoswapw(rd, rs1, rs2 Register) Amoswapw {
	return Amoswapw{newRType(f5AmoswapAmoswd<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmoaddw(rd, rs1, rs2 Register) Amoaddw {
	return Amoaddw{newRType(f5AmoaddAmoadd<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmoxorw(rd, rs1, rs2 Register) Amoxorw {
	return Amoxorw{newRType(f5AmoxorAmoxor<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmoandw(rd, rs1, rs2 Register) Amoandw {
	return Amoandw{newRType(f5AmoandAmoand<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmoorw(rd, rs1, rs2 Register) Amoorw {
	return Amoorw{newRType(f5AmoorAmoor<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmominw(rd, rs1, rs2 Register) Amominw {
	return Amominw{newRType(f5AmominAmomin<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmomaxw(rd, rs1, rs2 Register) Amomaxw {
	return Amomaxw{newRType(f5AmomaxAmomax<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmominuw(rd, rs1, rs2 Register) Amominuw {
	return Amominuw{newRType(f5AmominuAmominu<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}
func NewAmomaxuw(rd, rs1, rs2 Register) Amomaxuw {
	return Amomaxuw{newRType(f5AmomaxuAmomaxu<<2, f3Amo32, opAmo, rd, rs1, rs2)}
}

func NewLrd(rd, rs1 Register) Lrd { return Lrd{newRType(f5LrLd<<2, f3Amo64, opAmo, rd, rs1, Zero)} }
func NewScd(rd, rs1, rs2 Register) Scd {
	return Scd{newRType(f5ScSd<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmoswapd(rd, rs1, rs2 Register) Amoswapd {
	return Amoswapd{newRType(f5AmoswapAmoswd<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmoaddd(rd, rs1, rs2 Register) Amoaddd {
	return Amoaddd{newRType(f5AmoaddAmoadd<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmoxord(rd, rs1, rs2 Register) Amoxord {
	return Amoxord{newRType(f5AmoxorAmoxor<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmoandd(rd, rs1, rs2 Register) Amoandd {
	return Amoandd{newRType(f5AmoandAmoand<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmoord(rd, rs1, rs2 Register) Amoord {
	return Amoord{newRType(f5AmoorAmoor<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmomind(rd, rs1, rs2 Register) Amomind {
	return Amomind{newRType(f5AmominAmomin<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmomaxd(rd, rs1, rs2 Register) Amomaxd {
	return Amomaxd{newRType(f5AmomaxAmomax<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmominud(rd, rs1, rs2 Register) Amominud {
	return Amominud{newRType(f5AmominuAmominu<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
func NewAmomaxud(rd, rs1, rs2 Register) Amomaxud {
	return Amomaxud{newRType(f5AmomaxuAmomaxu<<2, f3Amo64, opAmo, rd, rs1, rs2)}
}
