package main

import (
	"log"

	"github-issue-automation/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
