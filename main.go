package main

import (
	"os"

	"github.com/edvenity/recruiter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
