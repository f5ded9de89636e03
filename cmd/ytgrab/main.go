package main

import "github.com/ytgrab/ytgrab/internal/cli"

func main() {
	cli.Execute()
}
