package main

import "github.com/ArnaudCalmettes/deflicker/cmd"

func main() {
	cmd.Execute()
}
