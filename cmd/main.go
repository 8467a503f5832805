// cmd/main.go
package main

import cmd "github.com/mwiater/goquantile/cmd/goquantile"

// main starts the goquantile CLI by delegating to the cobra root command.
func main() {
	cmd.Execute()
}
