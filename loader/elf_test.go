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

package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cksystemsgroup/riscu/loader"
)

const (
	emRiscv      = 243
	elfclass64   = 2
	elfclass32   = 1
	elfdata2lsb  = 1
	elfdata2msb  = 2
	etExec       = 2
	etDyn        = 3
	ptLoad       = 1
	pfX          = 0x1
	pfW          = 0x2
	pfR          = 0x4
	shtProgbits  = 1
	shfWrite     = 0x1
	shfExecinstr = 0x4
)

// writeElf64Header fills the 64-byte ELF64 identification and file header.
func writeElf64Header(h []byte, data byte, etype uint16, entry, phoff, shoff uint64, phnum, shnum, shstrndx uint16) {
	copy(h[0:4], []byte{0x7f, 'E', 'L', 'F'})
	h[4] = elfclass64
	h[5] = data
	h[6] = 1 // EI_VERSION
	order := byteOrder(data)
	order.PutUint16(h[16:18], etype)
	order.PutUint16(h[18:20], emRiscv)
	order.PutUint32(h[20:24], 1)
	order.PutUint64(h[24:32], entry)
	order.PutUint64(h[32:40], phoff)
	order.PutUint64(h[40:48], shoff)
	order.PutUint16(h[52:54], 64)
	order.PutUint16(h[54:56], 56)
	order.PutUint16(h[56:58], phnum)
	order.PutUint16(h[58:60], 64)
	order.PutUint16(h[60:62], shnum)
	order.PutUint16(h[62:64], shstrndx)
}

func byteOrder(data byte) binary.ByteOrder {
	if data == elfdata2msb {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func writeProgHeader(p []byte, order binary.ByteOrder, ptype, flags uint32, off, vaddr, filesz, memsz, align uint64) {
	order.PutUint32(p[0:4], ptype)
	order.PutUint32(p[4:8], flags)
	order.PutUint64(p[8:16], off)
	order.PutUint64(p[16:24], vaddr)
	order.PutUint64(p[24:32], vaddr)
	order.PutUint64(p[32:40], filesz)
	order.PutUint64(p[40:48], memsz)
	order.PutUint64(p[48:56], align)
}

func writeSectionHeader(s []byte, order binary.ByteOrder, name, stype uint32, flags, addr, off, size uint64) {
	order.PutUint32(s[0:4], name)
	order.PutUint32(s[4:8], stype)
	order.PutUint64(s[8:16], flags)
	order.PutUint64(s[16:24], addr)
	order.PutUint64(s[24:32], off)
	order.PutUint64(s[32:40], size)
	order.PutUint64(s[48:56], 1) // addralign
}

// buildTwoSegmentELF writes a static RISC-U ELF64 executable with a code
// (R+X) and data (R+W) PT_LOAD segment, with normal (non-legacy) p_offset
// values.
func buildTwoSegmentELF(codeAddr, entry uint64, code []byte, dataAddr uint64, data []byte) []byte {
	const headerEnd = 64 + 56*2
	codeOff := uint64(headerEnd)
	dataOff := codeOff + uint64(len(code))

	buf := make([]byte, dataOff+uint64(len(data)))
	writeElf64Header(buf[0:64], elfdata2lsb, etExec, entry, 64, 0, 2, 0, 0)
	writeProgHeader(buf[64:120], binary.LittleEndian, ptLoad, pfR|pfX, codeOff, codeAddr, uint64(len(code)), uint64(len(code)), 0x1000)
	writeProgHeader(buf[120:176], binary.LittleEndian, ptLoad, pfR|pfW, dataOff, dataAddr, uint64(len(data)), uint64(len(data)), 0x1000)
	copy(buf[codeOff:], code)
	copy(buf[dataOff:], data)
	return buf
}

// buildLegacySelfieELF writes a static RISC-U ELF64 executable whose code
// PT_LOAD segment carries p_offset == 0 (as emitted by the legacy Selfie
// toolchain), requiring the section-header fallback to locate the code.
func buildLegacySelfieELF(codeAddr, entry uint64, code []byte, dataAddr uint64, data []byte) []byte {
	const headerEnd = 64 + 56*2
	codeFileOff := uint64(headerEnd)
	dataOff := codeFileOff + uint64(len(code))
	shoff := dataOff + uint64(len(data))

	buf := make([]byte, shoff+64*2)
	writeElf64Header(buf[0:64], elfdata2lsb, etExec, entry, 64, shoff, 2, 2, 0)
	writeProgHeader(buf[64:120], binary.LittleEndian, ptLoad, pfR|pfX, 0, codeAddr, 0, 0, 0x1000)
	writeProgHeader(buf[120:176], binary.LittleEndian, ptLoad, pfR|pfW, dataOff, dataAddr, uint64(len(data)), uint64(len(data)), 0x1000)
	copy(buf[codeFileOff:], code)
	copy(buf[dataOff:], data)
	// section 0: SHT_NULL (all zero, already from make)
	writeSectionHeader(buf[shoff+64:shoff+128], binary.LittleEndian, 0, shtProgbits, shfExecinstr, codeAddr, codeFileOff, uint64(len(code)))
	return buf
}

func buildNoLoadSegmentELF() []byte {
	buf := make([]byte, 64)
	writeElf64Header(buf, elfdata2lsb, etExec, 0x1000, 0, 0, 0, 0, 0)
	return buf
}

func buildSingleSegmentELF() []byte {
	const headerEnd = 64 + 56
	buf := make([]byte, headerEnd+4)
	writeElf64Header(buf[0:64], elfdata2lsb, etExec, 0x1000, 64, 0, 1, 0, 0)
	writeProgHeader(buf[64:120], binary.LittleEndian, ptLoad, pfR|pfX, headerEnd, 0x1000, 4, 4, 0x1000)
	return buf
}

func buildDynELF() []byte {
	buf := buildNoLoadSegmentELF()
	writeElf64Header(buf, elfdata2lsb, etDyn, 0x1000, 0, 0, 0, 0, 0)
	return buf
}

func buildBigEndianELF() []byte {
	buf := make([]byte, 64)
	writeElf64Header(buf, elfdata2msb, etExec, 0x1000, 0, 0, 0, 0, 0)
	return buf
}

func build32BitELF() []byte {
	// A minimal, mostly-zero 32-bit ELF header: enough for debug/elf to
	// parse the class byte and report a non-64-bit file.
	buf := make([]byte, 52)
	copy(buf[0:4], []byte{0x7f, 'E', 'L', 'F'})
	buf[4] = elfclass32
	buf[5] = elfdata2lsb
	buf[6] = 1
	binary.LittleEndian.PutUint16(buf[16:18], etExec)
	binary.LittleEndian.PutUint16(buf[18:20], emRiscv)
	binary.LittleEndian.PutUint32(buf[20:24], 1)
	return buf
}

var _ = Describe("Load", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "riscu-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	writeAndLoad := func(name string, raw []byte) (*loader.Program, error) {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, raw, 0o644)).To(Succeed())
		return loader.Load(path)
	}

	Context("with a normal two-segment RISC-U ELF", func() {
		code := []byte{0x13, 0x00, 0x00, 0x00, 0x73, 0x00, 0x00, 0x00} // addi x0,x0,0 ; ecall
		data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

		It("loads the code and data segments at their virtual addresses", func() {
			prog, err := writeAndLoad("two-seg.elf", buildTwoSegmentELF(0x10000, 0x10000, code, 0x20000, data))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Code.Address).To(Equal(uint64(0x10000)))
			Expect(prog.Code.Content).To(Equal(code))
			Expect(prog.Data.Address).To(Equal(uint64(0x20000)))
			Expect(prog.Data.Content).To(Equal(data))
			Expect(prog.Entry).To(Equal(uint64(0x10000)))
		})

		It("zero-pads a segment whose memsz exceeds its filesz", func() {
			raw := buildTwoSegmentELF(0x10000, 0x10000, code, 0x20000, data)
			// Bump the data segment's memsz (offset 120+40) beyond its filesz.
			binary.LittleEndian.PutUint64(raw[120+40:120+48], uint64(len(data))+8)
			prog, err := writeAndLoad("padded.elf", raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Data.Content).To(HaveLen(len(data) + 8))
			Expect(prog.Data.Content[:len(data)]).To(Equal(data))
		})

		It("decodes the code segment into instructions via Decode", func() {
			prog, err := writeAndLoad("decode.elf", buildTwoSegmentELF(0x10000, 0x10000, code, 0x20000, data))
			Expect(err).NotTo(HaveOccurred())

			decoded, err := prog.Decode()
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Code.Instructions).To(HaveLen(2))
			Expect(decoded.Data.Words).To(Equal([]uint64{binary.LittleEndian.Uint64(data)}))
		})
	})

	Context("with the legacy Selfie p_offset == 0 layout", func() {
		code := []byte{0x13, 0x00, 0x00, 0x00}
		data := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

		It("falls back to the section headers to locate the code", func() {
			prog, err := writeAndLoad("legacy.elf", buildLegacySelfieELF(0x4000, 0x4000, code, 0x8000, data))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Code.Address).To(Equal(uint64(0x4000)))
			Expect(prog.Code.Content).To(Equal(code))
		})
	})

	Context("with structurally invalid RISC-U input", func() {
		It("rejects a file with fewer than two PT_LOAD segments", func() {
			_, err := writeAndLoad("none.elf", buildNoLoadSegmentELF())
			Expect(err).To(HaveOccurred())
			Expect(err.(*loader.Error).Kind).To(Equal(loader.InvalidRiscu))
		})

		It("rejects a file missing the data segment", func() {
			_, err := writeAndLoad("single.elf", buildSingleSegmentELF())
			Expect(err).To(HaveOccurred())
			Expect(err.(*loader.Error).Kind).To(Equal(loader.InvalidRiscu))
		})

		It("rejects a shared object (ET_DYN)", func() {
			_, err := writeAndLoad("dyn.elf", buildDynELF())
			Expect(err).To(HaveOccurred())
			Expect(err.(*loader.Error).Kind).To(Equal(loader.InvalidRiscu))
		})

		It("rejects a big-endian ELF", func() {
			_, err := writeAndLoad("be.elf", buildBigEndianELF())
			Expect(err).To(HaveOccurred())
			Expect(err.(*loader.Error).Kind).To(Equal(loader.InvalidRiscu))
		})

		It("rejects a 32-bit ELF", func() {
			_, err := writeAndLoad("32.elf", build32BitELF())
			Expect(err).To(HaveOccurred())
			Expect(err.(*loader.Error).Kind).To(Equal(loader.InvalidRiscu))
		})
	})

	Context("with non-ELF or missing input", func() {
		It("reports InvalidElf for garbage bytes", func() {
			_, err := writeAndLoad("garbage.elf", []byte("not an elf file at all"))
			Expect(err).To(HaveOccurred())
			Expect(err.(*loader.Error).Kind).To(Equal(loader.InvalidElf))
		})

		It("reports CouldNotReadFile for a missing path", func() {
			_, err := loader.Load(filepath.Join(tempDir, "does-not-exist.elf"))
			Expect(err).To(HaveOccurred())
			Expect(err.(*loader.Error).Kind).To(Equal(loader.CouldNotReadFile))
		})
	})
})
