// Copyright (c) 2026 Tigera, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/projectcalico/maglev/cmd/maglev/commands"
	"github.com/projectcalico/maglev/pkg/maglev"
)

func run(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = commands.Execute(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

var _ = Describe("maglev CLI", func() {
	BeforeEach(func() {
		for _, v := range []string{
			"MAGLEV_LOG_LEVEL", "MAGLEV_HASH", "MAGLEV_OUTPUT", "MAGLEV_STRICT_COVERAGE",
			"LOG_LEVEL", "HASH", "OUTPUT", "STRICT_COVERAGE",
		} {
			GinkgoT().Setenv(v, "")
			Expect(os.Unsetenv(v)).To(Succeed())
		}
	})

	Describe("build", func() {
		It("should print the table", func() {
			out, _, code := run("build", "7", "a", "b", "c")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(Equal("1 2 0 0 0 2 1\n"))
		})

		DescribeTable("should exit with a code per failure kind",
			func(expectedCode int, stderrSubstring string, args ...string) {
				out, errOut, code := run(args...)
				Expect(code).To(Equal(expectedCode))
				Expect(out).To(BeEmpty())
				Expect(errOut).To(ContainSubstring(stderrSubstring))
			},
			Entry("no command", commands.ExitUsage, "no command given"),
			Entry("no arguments", commands.ExitUsage, "invalid arguments", "build"),
			Entry("table size only", commands.ExitUsage, "invalid arguments", "build", "7"),
			Entry("table size not a number", commands.ExitUsage, "not an integer", "build", "seven", "a"),
			Entry("composite table size", commands.ExitInvalidArgument, "not prime", "build", "4", "a", "b"),
			Entry("table size 1", commands.ExitInvalidArgument, "less than 2", "build", "1", "a"),
			Entry("duplicate backends", commands.ExitInvalidArgument, "listed at both", "build", "7", "a", "a"),
			Entry("strict coverage", commands.ExitInvalidArgument, "smaller than the number of backends",
				"build", "--strict", "2", "a", "b", "c"),
			Entry("unknown output", commands.ExitUsage, "unknown output format", "build", "-o", "xml", "7", "a"),
			Entry("unknown hash", commands.ExitUsage, "unknown hash pair", "build", "--hash", "md4", "7", "a"),
			Entry("unknown flag", commands.ExitUsage, "unknown flag", "build", "--bogus", "7", "a"),
		)

		It("should accept backend names starting with a dash after --", func() {
			out, errOut, code := run("build", "7", "--", "-a", "b")
			Expect(code).To(Equal(commands.ExitOK), errOut)
			expected, err := maglev.Build([]string{"-a", "b"}, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(expected.String() + "\n"))
		})

		It("should accept a dash-prefixed backend in diff lists", func() {
			out, errOut, code := run("diff", "7", "--", "a,b", "-c,b")
			Expect(code).To(Equal(commands.ExitOK), errOut)
			Expect(out).To(HavePrefix("changed "))
		})

		It("should print JSON", func() {
			out, _, code := run("build", "-o", "json", "7", "a", "b", "c")
			Expect(code).To(Equal(commands.ExitOK))
			var view struct {
				TableSize int      `json:"tableSize"`
				Hash      string   `json:"hash"`
				Backends  []string `json:"backends"`
				Counts    []int    `json:"counts"`
				Table     []int    `json:"table"`
			}
			Expect(json.Unmarshal([]byte(out), &view)).To(Succeed())
			Expect(view.TableSize).To(Equal(7))
			Expect(view.Hash).To(Equal(maglev.DefaultHashPair))
			Expect(view.Backends).To(Equal([]string{"a", "b", "c"}))
			Expect(view.Counts).To(Equal([]int{3, 2, 2}))
			Expect(view.Table).To(Equal([]int{1, 2, 0, 0, 0, 2, 1}))
		})

		It("should print YAML", func() {
			out, _, code := run("build", "--output=yaml", "7", "a", "b", "c")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(ContainSubstring("tableSize: 7\n"))
			Expect(out).To(ContainSubstring("table: [1, 2, 0, 0, 0, 2, 1]\n"))
		})

		It("should print a summary", func() {
			out, _, code := run("build", "-o", "summary", "7", "a", "b", "c")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(ContainSubstring("BACKEND"))
			Expect(out).To(ContainSubstring("42.86%"))
			Expect(out).To(ContainSubstring("28.57%"))
		})

		It("should take the output format from the environment", func() {
			GinkgoT().Setenv("MAGLEV_OUTPUT", "json")
			out, _, code := run("build", "7", "a", "b", "c")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(HavePrefix("{"))
		})

		It("should let flags override the environment", func() {
			GinkgoT().Setenv("MAGLEV_OUTPUT", "json")
			out, _, code := run("build", "-o", "indices", "7", "a", "b", "c")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(Equal("1 2 0 0 0 2 1\n"))
		})

		It("should reject a bad environment", func() {
			GinkgoT().Setenv("MAGLEV_HASH", "bogus")
			_, errOut, code := run("build", "7", "a")
			Expect(code).To(Equal(commands.ExitUsage))
			Expect(errOut).To(ContainSubstring("invalid environment"))
		})

		It("should use the selected hash pair", func() {
			out, _, code := run("build", "--hash", "xxhash", "13", "a", "b", "c")
			Expect(code).To(Equal(commands.ExitOK))
			expected, err := maglev.Build([]string{"a", "b", "c"}, 13, maglev.WithHasher(maglev.XXHashPair))
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(expected.String() + "\n"))
		})

		Context("with a build spec file", func() {
			var file string

			BeforeEach(func() {
				file = filepath.Join(GinkgoT().TempDir(), "spec.yaml")
				Expect(os.WriteFile(file, []byte("tableSize: 7\nbackends: [a, b, c]\n"), 0o644)).To(Succeed())
			})

			It("should build from the file", func() {
				out, _, code := run("build", "-f", file)
				Expect(code).To(Equal(commands.ExitOK))
				Expect(out).To(Equal("1 2 0 0 0 2 1\n"))
			})

			It("should not mix the file with positional arguments", func() {
				_, _, code := run("build", "-f", file, "7", "a")
				Expect(code).To(Equal(commands.ExitUsage))
			})

			It("should fail on a missing file", func() {
				_, errOut, code := run("build", "-f", file+".missing")
				Expect(code).To(Equal(commands.ExitUsage))
				Expect(errOut).To(ContainSubstring("failed to load"))
			})
		})
	})

	Describe("diff", func() {
		It("should report the moved slots", func() {
			out, _, code := run("diff", "7", "a,b,c", "b,c")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(HavePrefix("changed 3 of 7 slots (42.86%)\n"))
			Expect(out).To(ContainSubstring("BEFORE"))
		})

		It("should fail when either table cannot be built", func() {
			_, errOut, code := run("diff", "7", "a,b", "a,a")
			Expect(code).To(Equal(commands.ExitInvalidArgument))
			Expect(errOut).To(ContainSubstring("<after>"))
		})

		It("should need three arguments", func() {
			_, _, code := run("diff", "7", "a,b")
			Expect(code).To(Equal(commands.ExitUsage))
		})
	})

	Describe("primes", func() {
		It("should accept a prime", func() {
			out, _, code := run("primes", "65537")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(Equal("65537 is prime\n"))
		})

		It("should suggest primes", func() {
			out, _, code := run("primes", "8")
			Expect(code).To(Equal(commands.ExitOK))
			Expect(out).To(Equal("8 is not prime; nearest prime 7, next prime 11\n"))
		})

		It("should reject a non-number", func() {
			_, _, code := run("primes", "eight")
			Expect(code).To(Equal(commands.ExitUsage))
		})
	})

	It("should treat an unknown command as a usage error", func() {
		_, errOut, code := run("rebuild")
		Expect(code).To(Equal(commands.ExitUsage))
		Expect(errOut).To(ContainSubstring("Usage:"))
	})
})

var _ = DescribeTable("ExitCode",
	func(err error, expected int) {
		Expect(commands.ExitCode(err)).To(Equal(expected))
	},
	Entry("success", nil, commands.ExitOK),
	Entry("invalid argument", errors.Wrap(maglev.ErrInvalidArgument, "x"), commands.ExitInvalidArgument),
	Entry("allocation failure", errors.WithMessage(errors.Wrap(maglev.ErrAllocationFailure, "x"), "y"), commands.ExitAllocationFailure),
	Entry("construction failure", errors.Wrap(maglev.ErrConstructionFailure, "x"), commands.ExitConstructionFailure),
	Entry("anything else", errors.New("boom"), commands.ExitFailure),
)
