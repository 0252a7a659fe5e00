package main

import "github.com/tripdeskhq/tripdesk/cmd"

func main() {
	cmd.Execute()
}
