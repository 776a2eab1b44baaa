package main

import "github.com/jcdickinson/pywtf/cmd"

func main() {
	cmd.Execute()
}
