package main

import "github.com/gatelog/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
