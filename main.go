package main

import (
	"log"

	"github.com/rehiko/picstash/cmd"
	"github.com/rehiko/picstash/config"
)

func main() {
	log.Printf("picstash %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
