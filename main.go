package main

import "github.com/PolarWolf314/deskvault/cmd"

func main() {
	cmd.Execute()
}
