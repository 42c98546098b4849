package main

import "github.com/Brownie44l1/medict-api/internal/cli"

func main() {
	cli.Execute()
}
