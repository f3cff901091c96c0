package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-inventory-server/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("inventory API stopped: %v", err)
	}
}
