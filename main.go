package main

import (
	"log"

	"github.com/favrelay/favrelay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
