// Command ordercorrect corrects staffing order XML documents against
// the fact records of an orders file and reports the per-rule outcome
// of every correction.
package main

import (
	"archive/zip"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ordercore/internal/blob"
	"ordercore/internal/engine"
	"ordercore/internal/infra/persistence/memory"
	"ordercore/internal/orders"
	"ordercore/internal/report"
	"ordercore/internal/service"
	"ordercore/pkg/rules"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ordercorrect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		ordersPath  string
		rulesPath   string
		outDir      string
		zipPath     string
		orderID     string
		persist     bool
		archiveOpen bool
	)
	fs.StringVar(&ordersPath, "orders", "thales_orders.json", "path to the orders JSON file")
	fs.StringVar(&rulesPath, "rules", "", "rule table JSON overriding the rules declared in the orders file")
	fs.StringVar(&outDir, "out", "corrected", "directory for corrected documents (empty to skip writing)")
	fs.StringVar(&zipPath, "zip", "", "also bundle corrected documents into this ZIP file")
	fs.StringVar(&orderID, "order", "", "force this order id instead of detecting one per document")
	fs.BoolVar(&persist, "persist", false, "record correction runs in the configured persistent store (ORDERCORE_STORAGE_DRIVER)")
	fs.BoolVar(&archiveOpen, "archive", false, "archive corrected artifacts via the configured blob store (ORDERCORE_BLOB_DRIVER)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "ordercorrect: no documents given")
		fs.Usage()
		return 2
	}

	ctx := context.Background()

	file, err := orders.Load(ordersPath)
	if err != nil {
		fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
		return 2
	}
	if rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err != nil {
			fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
			return 2
		}
		set, err := rules.ParseSet(data)
		if err != nil {
			fmt.Fprintf(stderr, "ordercorrect: %s: %v\n", rulesPath, err)
			return 2
		}
		file.Rules = set.Rules()
	}

	store, err := openStore(persist)
	if err != nil {
		fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
		return 2
	}
	defer func() { _ = store.Close() }()

	var archive blob.Store
	if archiveOpen {
		archive, err = blob.Open(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
			return 2
		}
	}

	svc, err := service.New(ctx, store, archive, file)
	if err != nil {
		fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
		return 2
	}

	var bundle *zip.Writer
	if zipPath != "" {
		f, err := os.Create(zipPath)
		if err != nil {
			fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
			return 2
		}
		defer f.Close()
		bundle = zip.NewWriter(f)
	}

	failed := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
			failed++
			continue
		}
		name := filepath.Base(path)

		var (
			run       orders.CorrectionRun
			corrected []byte
		)
		if orderID != "" {
			run, corrected, err = svc.CorrectDocumentForOrder(ctx, name, data, orderID)
		} else {
			run, corrected, err = svc.CorrectDocument(ctx, name, data)
		}
		if err != nil {
			fmt.Fprintf(stderr, "ordercorrect: %s: %v\n", name, err)
			failed++
			continue
		}

		result := engine.Result{Outcomes: run.Outcomes}
		if err := report.Render(stdout, name, result); err != nil {
			fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
			return 2
		}
		if len(result.Failures()) > 0 {
			failed++
		}

		if outDir != "" {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
				return 2
			}
			if err := os.WriteFile(filepath.Join(outDir, name), corrected, 0o644); err != nil {
				fmt.Fprintf(stderr, "ordercorrect: %v\n", err)
				return 2
			}
		}
		if bundle != nil {
			entry, err := bundle.Create(name)
			if err == nil {
				_, err = entry.Write(corrected)
			}
			if err != nil {
				fmt.Fprintf(stderr, "ordercorrect: bundle %s: %v\n", name, err)
				return 2
			}
		}
	}

	if bundle != nil {
		if err := bundle.Close(); err != nil {
			fmt.Fprintf(stderr, "ordercorrect: close bundle: %v\n", err)
			return 2
		}
	}

	if failed > 0 {
		fmt.Fprintf(stderr, "ordercorrect: %d of %d documents had failures\n", failed, fs.NArg())
		return 1
	}
	return 0
}

func openStore(persist bool) (orders.Store, error) {
	if persist {
		return service.OpenPersistentStore()
	}
	return memory.NewStore(), nil
}
