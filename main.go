package main

import "coursehub/cmd"

func main() {
	cmd.Execute()
}
