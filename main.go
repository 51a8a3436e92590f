// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/walker84837/lunash/cmd/lunash"

func main() {
	cmd.Execute()
}
