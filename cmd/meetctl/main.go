package main

import (
	"log"

	"github.com/fgloris/smart-meeting-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
