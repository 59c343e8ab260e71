package main

import "pingwatch/internal/cli"

func main() {
	cli.Execute()
}
