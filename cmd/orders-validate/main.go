// Command orders-validate checks an orders JSON file for structural
// problems and prints a statistics summary.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"ordercore/internal/orders"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("orders-validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		ordersPath string
		showStats  bool
	)
	fs.StringVar(&ordersPath, "orders", "thales_orders.json", "path to the orders JSON file")
	fs.BoolVar(&showStats, "stats", false, "print the recomputed statistics summary")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	file, err := orders.Load(ordersPath)
	if err != nil {
		fmt.Fprintf(stderr, "orders-validate: %v\n", err)
		return 2
	}

	problems := orders.Validate(file)
	for _, p := range problems {
		fmt.Fprintln(stdout, p.String())
	}

	if showStats {
		printStats(stdout, orders.BuildStatistics(file.Orders))
	}

	if len(problems) > 0 {
		fmt.Fprintf(stderr, "orders-validate: %d problems in %s\n", len(problems), ordersPath)
		return 1
	}
	fmt.Fprintf(stdout, "%s: OK (%d orders, client %s)\n", ordersPath, len(file.Orders), file.Metadata.Client)
	return 0
}

func printStats(w io.Writer, stats orders.Statistics) {
	fmt.Fprintf(w, "total orders:     %d\n", stats.TotalOrders)
	fmt.Fprintf(w, "agency codes:     %s\n", strings.Join(stats.UniqueAgencyCodes, ", "))
	fmt.Fprintf(w, "job codes:        %d\n", len(stats.UniqueJobCodes))
	fmt.Fprintf(w, "with job code:    %d\n", stats.OrdersWithJobCode)
	fmt.Fprintf(w, "with cost center: %d\n", stats.OrdersWithAnalysis)
	fmt.Fprintf(w, "with dates:       %d\n", stats.OrdersWithDates)
	for agency, n := range stats.OrdersPerAgency {
		fmt.Fprintf(w, "  %s: %d\n", agency, n)
	}
}
