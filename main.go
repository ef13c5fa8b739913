package main

import "github.com/KaramelBytes/tidyhar/cmd"

func main() {
	cmd.Execute()
}
