// nanctl is a read-only introspection CLI for the nand daemon.
package main

import "github.com/nan-project/nand/cmd/nanctl/commands"

func main() {
	commands.Execute()
}
