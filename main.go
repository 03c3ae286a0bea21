package main

import "github.com/zinc-sig/figbed/cmd"

func main() {
	cmd.Execute()
}
