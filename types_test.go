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

package riscu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cksystemsgroup/riscu"
)

var _ = Describe("format value types", func() {
	It("round-trips every field of an RType word", func() {
		word := riscu.NewAdd(riscu.A0, riscu.A1, riscu.A2)
		Expect(word.Rd()).To(Equal(riscu.A0))
		Expect(word.Rs1()).To(Equal(riscu.A1))
		Expect(word.Rs2()).To(Equal(riscu.A2))
	})

	It("round-trips every field of an IType word, including a negative immediate", func() {
		word := riscu.NewAddi(riscu.T0, riscu.T1, -100)
		Expect(word.Rd()).To(Equal(riscu.T0))
		Expect(word.Rs1()).To(Equal(riscu.T1))
		Expect(word.Imm()).To(Equal(int32(-100)))
	})

	It("round-trips every field of an SType word, including a negative immediate", func() {
		word := riscu.NewSw(riscu.Sp, riscu.A0, -4)
		Expect(word.Rs1()).To(Equal(riscu.Sp))
		Expect(word.Rs2()).To(Equal(riscu.A0))
		Expect(word.Imm()).To(Equal(int32(-4)))
	})

	It("round-trips every field of a BType word, including a negative immediate", func() {
		word := riscu.NewBlt(riscu.T0, riscu.T1, -2)
		Expect(word.Rs1()).To(Equal(riscu.T0))
		Expect(word.Rs2()).To(Equal(riscu.T1))
		Expect(word.Imm()).To(Equal(int32(-2)))
	})

	It("round-trips every field of a UType word", func() {
		word := riscu.NewLui(riscu.Gp, 0xabcde)
		Expect(word.Rd()).To(Equal(riscu.Gp))
		Expect(word.Imm()).To(Equal(uint32(0xabcde)))
	})

	It("round-trips every field of a JType word, including a negative immediate", func() {
		word := riscu.NewJal(riscu.Ra, -2)
		Expect(word.Rd()).To(Equal(riscu.Ra))
		Expect(word.Imm()).To(Equal(int32(-2)))
	})

	It("round-trips the pred/succ fields of a FenceType word", func() {
		word := riscu.NewFence(0xa, 0x5)
		Expect(word.Pred()).To(Equal(uint32(0xa)))
		Expect(word.Succ()).To(Equal(uint32(0x5)))
	})

	It("round-trips the shamt field of a ShiftType word", func() {
		word := riscu.NewSlli(riscu.A0, riscu.A1, 17)
		Expect(word.Rd()).To(Equal(riscu.A0))
		Expect(word.Rs1()).To(Equal(riscu.A1))
		Expect(word.Shamt()).To(Equal(uint32(17)))
	})

	It("round-trips a raw CsrType word without producing an Instruction", func() {
		word := riscu.NewCsrType(0x305, 0x1, riscu.A0, riscu.A1) // 0x305 = mtvec, funct3 CSRRW
		Expect(word.Csr()).To(Equal(uint32(0x305)))
		Expect(word.Rd()).To(Equal(riscu.A0))
		Expect(word.Rs1()).To(Equal(riscu.A1))
	})

	It("round-trips a raw CsrIType word without producing an Instruction", func() {
		word := riscu.NewCsrIType(0x305, 0x1f, 0x5, riscu.A0)
		Expect(word.Csr()).To(Equal(uint32(0x305)))
		Expect(word.Zimm()).To(Equal(uint32(0x1f)))
		Expect(word.Rd()).To(Equal(riscu.A0))
	})

	Describe("encoder constructors panic on out-of-range fields", func() {
		It("panics when an I-type immediate does not fit in 12 signed bits", func() {
			Expect(func() { riscu.NewAddi(riscu.A0, riscu.A1, 2048) }).To(Panic())
		})

		It("panics when an S-type immediate does not fit in 12 signed bits", func() {
			Expect(func() { riscu.NewSw(riscu.A0, riscu.A1, -2049) }).To(Panic())
		})

		It("panics when a shift amount does not fit in 6 bits", func() {
			Expect(func() { riscu.NewSlli(riscu.A0, riscu.A1, 64) }).To(Panic())
		})

		It("panics when a fence bitmask does not fit in 4 bits", func() {
			Expect(func() { riscu.NewFence(0x10, 0x0) }).To(Panic())
		})
	})
})
