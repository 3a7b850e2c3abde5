package main

import "github.com/JanCBrammer/NeuroKit/cmd"

func main() {
	cmd.Execute()
}
