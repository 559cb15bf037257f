package main

import "github.com/andrescamacho/headquartz-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
