package main

import "github.com/okian/betterrest/internal/cli"

func main() {
	cli.Execute()
}
