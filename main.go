package main

import "github.com/vmsizer/vmsizer/cmd"

func main() {
	cmd.Execute()
}
