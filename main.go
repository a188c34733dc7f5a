package main

import "github.com/josephlewis42/neoshell/cmd"

func main() {
	cmd.Execute()
}
