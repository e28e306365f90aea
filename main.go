package main

import "github.com/theirongolddev/spendchart/cmd"

func main() {
	cmd.Execute()
}
