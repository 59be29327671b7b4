package main

import "github.com/KaramelBytes/dimred-cli/cmd"

func main() {
	cmd.Execute()
}
