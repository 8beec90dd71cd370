package main

import "github.com/tensorhvac/hvaccase/cmd"

func main() {
	cmd.Execute()
}
