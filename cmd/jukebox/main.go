// Package main is the dj-jukebox entry point (HTTP + WebSocket).
package main

import (
	"log"

	"github.com/Yekna/dj-jukebox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
