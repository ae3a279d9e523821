package main

import (
	"context"
	"inventoryservice/internal/app"
	stdlog "log"

	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("Application failed: %v", err)
	}
}

func run() error {
	// Prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	application, err := app.NewApplication(ctx)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	return application.Run()
}
