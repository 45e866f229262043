package main

import "cdkdeploy/cmd"

func main() {
	cmd.Execute()
}
