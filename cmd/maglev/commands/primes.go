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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projectcalico/maglev/pkg/maglev"
)

type primesArgs struct {
	N string `docopt:"<n>"`
}

func newPrimesCmd() *cobra.Command {
	var n int
	return &cobra.Command{
		Use:   "primes <n>",
		Short: "checks whether <n> can be used as a table size and suggests primes near it",
		Args: func(c *cobra.Command, args []string) error {
			var a primesArgs
			if err := bindArgs(c, args, &a); err != nil {
				return err
			}
			var err error
			n, err = parseTableSize(a.N)
			return err
		},
		RunE: func(c *cobra.Command, _ []string) error {
			out := c.OutOrStdout()
			if maglev.IsPrime(n) {
				_, err := fmt.Fprintf(out, "%d is prime\n", n)
				return err
			}
			_, err := fmt.Fprintf(out, "%d is not prime; nearest prime %d, next prime %d\n",
				n, maglev.NearestPrime(n), maglev.NextPrime(n))
			return err
		},
	}
}
