package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bengo-rentals/config"
	"bengo-rentals/logging"
	"bengo-rentals/rental"
)

const dateLayout = "2006-01-02"

var (
	cfgFile string
	dbPath  string
	verbose bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bengo",
		Short: "BenGo Rentals storefront",
		Long: `BenGo Rentals. Drive your journey with comfort and style.

Browse the catalog, sign up, rent a car by picking a return date, pay,
and track your rentals. Everything is stored locally on this device.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the local database (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		carsCmd(),
		rentCmd(),
		payCmd(),
		returnCmd(),
		rentalsCmd(),
		notificationsCmd(),
		resetStocksCmd(),
	)
	return root
}

// openManager applies the config layering (defaults, JSON file, flags) and
// opens the ledger.
func openManager(ctx context.Context) (*rental.Manager, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if verbose {
		cfg.Verbose = true
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return rental.NewManager(ctx, cfg.DBPath, log)
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			username, err := readLine("Username: ")
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			repeat, err := readPassword("Repeat password: ")
			if err != nil {
				return err
			}

			if err := mgr.Register(ctx, username, password, repeat); err != nil {
				return err
			}
			fmt.Println("Registration successful! You can now log in.")
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			username, err := readLine("Username: ")
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			if err := mgr.SignIn(ctx, username, password); err != nil {
				return err
			}
			fmt.Printf("Welcome back, %s!\n", username)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if err := mgr.SignOut(ctx); err != nil {
				return err
			}
			fmt.Println("Signed out. See you on the road!")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			username, err := mgr.CurrentUser(ctx)
			if err != nil {
				return err
			}
			if username == "" {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Println(username)
			return nil
		},
	}
}

func carsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cars",
		Short: "Browse the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			fmt.Println("Available Cars")
			fmt.Printf("%-5s %-20s %-12s %-5s\n", "ID", "Name", "Price", "Stock")
			fmt.Println(strings.Repeat("-", 45))
			for _, car := range mgr.Cars() {
				stock, err := mgr.Stock(ctx, car.ID)
				if err != nil {
					return err
				}
				fmt.Println(rental.PrettyCar(car, stock))
			}
			fmt.Println()
			fmt.Println("Rental includes basic insurance, 100km/day free mileage, and roadside assistance.")
			return nil
		},
	}
}

func rentCmd() *cobra.Command {
	var until string
	cmd := &cobra.Command{
		Use:   "rent <car-id>",
		Short: "Rent a car (payment is a separate step)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if until == "" {
				until, err = readLine("Return date (YYYY-MM-DD): ")
				if err != nil {
					return err
				}
			}
			dateTo, err := time.Parse(dateLayout, until)
			if err != nil {
				return fmt.Errorf("invalid return date %q, expected YYYY-MM-DD", until)
			}

			rec, err := mgr.CreateRental(ctx, args[0], dateTo)
			if err != nil {
				return err
			}
			fmt.Printf("Rental created: %s\n", rec.CarName)
			fmt.Printf("  %s to %s, total %s\n", rec.DateFrom.Format(dateLayout), rec.DateTo.Format(dateLayout), rental.FormatPrice(rec.TotalPrice))
			fmt.Printf("  Status: %s\n", rec.Status)
			fmt.Printf("Run 'bengo pay %s' to confirm payment.\n", rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&until, "until", "", "return date (YYYY-MM-DD)")
	return cmd
}

func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <rental-id>",
		Short: "Confirm payment for a rental",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if err := mgr.MarkPaid(ctx, args[0]); err != nil {
				if errors.Is(err, rental.ErrOutOfStock) {
					fmt.Println("Sorry, this car just sold out. Your booking is kept unpaid.")
				}
				return err
			}
			fmt.Println("Payment confirmed. Enjoy your ride!")
			return nil
		},
	}
}

func returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <rental-id>",
		Short: "Return a rented car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if err := mgr.MarkReturned(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Car returned. Thank you for renting with BenGo!")
			return nil
		},
	}
}

func rentalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rentals",
		Short: "List your rentals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			records, err := mgr.Rentals(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("You have no rentals yet.")
				return nil
			}

			fmt.Println("My Rentals")
			fmt.Printf("%-36s %-15s %-23s %-10s %s\n", "ID", "Car", "Dates", "Total", "Status")
			fmt.Println(strings.Repeat("-", 100))
			for _, rec := range records {
				dates := fmt.Sprintf("%s to %s", rec.DateFrom.Format(dateLayout), rec.DateTo.Format(dateLayout))
				fmt.Printf("%-36s %-15s %-23s %-10s %s\n",
					rec.ID,
					truncateString(rec.CarName, 15),
					dates,
					rental.FormatPrice(rec.TotalPrice),
					rec.Status)
			}
			return nil
		},
	}
}

func notificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Show your notifications, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			items, err := mgr.Notifications(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No notifications.")
				return nil
			}
			// The store keeps insertion order; show most recent first.
			for i := len(items) - 1; i >= 0; i-- {
				fmt.Printf("%s  %s\n", items[i].CreatedAt.Local().Format("2006-01-02 15:04"), items[i].Message)
			}
			return nil
		},
	}
}

func resetStocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-stocks",
		Short: "Re-seed every car's stock with a fresh random count",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := openManager(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if err := mgr.ResetAllStocks(ctx); err != nil {
				return err
			}
			fmt.Println("Inventory re-seeded:")
			for _, car := range mgr.Cars() {
				stock, err := mgr.Stock(ctx, car.ID)
				if err != nil {
					return err
				}
				fmt.Println(rental.PrettyCar(car, stock))
			}
			return nil
		},
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
