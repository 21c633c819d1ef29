package main

import "github.com/guelfoweb/diga/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
