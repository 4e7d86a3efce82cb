package main

import "github.com/quantumtrio/kptsignal/cmd"

func main() {
	cmd.Execute()
}
