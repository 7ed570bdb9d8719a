package main

import (
	"setup-automate/cmd"
)

// main hands control to the CLI, which exits with the status of the run.
func main() {
	cmd.Execute()
}
