package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/Shreejal-khatri/ElectronicStore/internal/app/api"
)

func main() {
	_ = godotenv.Load()
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("store API exited: %v", err)
	}
}
