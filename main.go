package main

import "lpd/cmd"

func main() {
	cmd.Execute()
}
