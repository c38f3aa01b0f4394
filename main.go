package main

import "github.com/Tiliavir/tsheet/cmd"

func main() {
	cmd.Execute()
}
