package main

import (
	"log"

	"github.com/parisab/resume-screener/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
