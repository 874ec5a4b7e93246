package main

import "github.com/theirongolddev/hbt/cmd"

func main() {
	cmd.Execute()
}
