package main

import (
	"github.com/mpetrov/retaildwh/internal/cmd"
)

func main() {
	cmd.Execute()
}
