package main

import "github.com/hungernads/nads-core/cmd"

func main() {
	cmd.Execute()
}
