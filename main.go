package main

import "github.com/theirongolddev/spendtrack/cmd"

func main() {
	cmd.Execute()
}
