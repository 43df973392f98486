package main

import "github.com/mars-sim/mars-sim-sub055/internal/adapters/cli"

func main() {
	cli.Execute()
}
