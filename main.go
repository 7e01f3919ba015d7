// main.go
//
// Entry point; CLI handling lives in the cobra commands under cmd/.

package main

import (
	"github.com/evac-sim/evac-sim/cmd"
)

func main() {
	cmd.Execute()
}
