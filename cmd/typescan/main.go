package main

import "github.com/typescan/typescan/internal/cli"

func main() {
	cli.Execute()
}
