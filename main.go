package main

import (
	"github.com/cloudbees-io/deployment-auto-approval/cmd"
	"log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
