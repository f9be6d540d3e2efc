// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/dropletkit/jbp/cmd/jbp"

func main() {
	cmd.Execute()
}
