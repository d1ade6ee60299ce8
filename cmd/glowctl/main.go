package main

import "glowupp/nutrition-api/internal/cli"

func main() {
	cli.Execute()
}
