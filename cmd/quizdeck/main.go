// cmd/quizdeck/main.go
package main

import (
	cmd "github.com/starfield-labs/quizdeck/internal/cli"
)

// main starts the quizdeck CLI application by delegating to the
// cobra root command defined in the quizdeck package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
