package main

import "github.com/smartcity/accidents/cmd/accidentctl/cmd"

func main() {
	cmd.Execute()
}
