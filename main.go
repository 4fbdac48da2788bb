package main

import "github.com/KaramelBytes/hominid-cli/cmd"

func main() {
	cmd.Execute()
}
