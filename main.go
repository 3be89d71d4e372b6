package main

import "github.com/hasinarivo/expense-tracker/cmd"

func main() {
	cmd.Execute()
}
