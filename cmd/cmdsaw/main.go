package main

import "github.com/cmdsaw/cmdsaw/cmd"

func main() {
	cmd.Execute()
}
