// Command seed_stocks resets the inventory ledger: every catalog car gets
// a fresh random stock count in the seed range, discarding prior counts.
// Useful for bringing a demo database back to a just-installed state.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bengo-rentals/logging"
	"bengo-rentals/rental"
)

func main() {
	dbPath := "bengo.db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	mgr, err := rental.NewManager(ctx, dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	fmt.Printf("Re-seeding stocks in %s...\n", dbPath)
	if err := mgr.ResetAllStocks(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error resetting stocks: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nSeed complete!")
	fmt.Printf("%-5s %-20s %-12s %-5s\n", "ID", "Name", "Price", "Stock")
	for _, car := range mgr.Cars() {
		stock, err := mgr.Stock(ctx, car.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stock for %s: %v\n", car.Name, err)
			os.Exit(1)
		}
		fmt.Println(rental.PrettyCar(car, stock))
	}
}
