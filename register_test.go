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

var _ = Describe("Register", func() {
	It("prints the canonical ABI names", func() {
		Expect(riscu.Zero.String()).To(Equal("zero"))
		Expect(riscu.Ra.String()).To(Equal("ra"))
		Expect(riscu.Sp.String()).To(Equal("sp"))
		Expect(riscu.A0.String()).To(Equal("a0"))
		Expect(riscu.T6.String()).To(Equal("t6"))
	})

	It("round trips every register through its ABI name", func() {
		for r := riscu.Zero; r <= riscu.T6; r++ {
			got, ok := riscu.RegisterByName(r.String())
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(r))
		}
	})

	It("reports false for an unknown name", func() {
		_, ok := riscu.RegisterByName("not-a-register")
		Expect(ok).To(BeFalse())
	})

	It("looks up a register by its numeric name", func() {
		got, ok := riscu.RegisterByName("x10")
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(riscu.A0))
	})

	It("reports false for an out-of-range numeric name", func() {
		_, ok := riscu.RegisterByName("x32")
		Expect(ok).To(BeFalse())
	})
})
