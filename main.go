package main

import "github.com/kozaktomas/lifeline/cmd"

func main() {
	cmd.Execute()
}
