package main

import "github.com/lepinkainen/lumina/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
