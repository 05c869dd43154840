// Sramsim runs stimulus scripts against a cycle-accurate SRAM macro.
package main

import "github.com/sarchlab/sramsim/sramsim/cmd"

func main() {
	cmd.Execute()
}
