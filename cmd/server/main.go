package main

import "github.com/easycontent/contentgen/internal/cli"

func main() {
	cli.Execute()
}
