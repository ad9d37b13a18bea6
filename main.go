package main

import "github.com/rpupo63/photo-portfolio/cmd"

func main() {
	cmd.Execute()
}
