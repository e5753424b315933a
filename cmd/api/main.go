package main

import (
	"context"
	"log"

	"github.com/Apurer/store-orders-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("store orders API stopped: %v", err)
	}
}
