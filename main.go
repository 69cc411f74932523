package main

import "github.com/Tiliavir/learnflow/cmd"

func main() {
	cmd.Execute()
}
