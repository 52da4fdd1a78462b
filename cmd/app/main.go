package main

import (
	"minecalc/cmd/app/commands"
)

// Delegates to the cobra CLI defined in cmd/app/commands.
func main() {
	commands.Execute()
}
