package main

import "github.com/cmmoran/ai1convert/cmd"

func main() {
	cmd.Execute()
}
