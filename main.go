package main

import "github.com/gaurav-prasanna/urlmd/cmd"

func main() {
	cmd.Execute()
}
