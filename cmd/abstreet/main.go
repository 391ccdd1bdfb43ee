package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/breezechen/abstreet/cmd/abstreet/commands"
)

func main() {
	// A .env next to the binary can hold ABSTREET_API_URL and friends.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("Error loading .env file:", err)
		}
	}

	commands.Execute()
}
