package main

import (
	"context"
	"log"

	"github.com/metalsdesk/admin-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("admin API failed: %v", err)
	}
}
