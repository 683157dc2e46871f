package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/storage/postgres"
)

var contacts = []string{
	"jane.doe@stripe.com",
	"m.rossi@shopify.com",
	"ops@cloudflare.com",
	"hello@notion.so",
	"sales@hubspot.com",
	"a.nguyen@atlassian.com",
	"billing@datadoghq.com",
	"support@zendesk.com",
	"k.tanaka@toyota.co.jp",
	"procurement@siemens.com",
	"team@figma.com",
	"j.smith@gitlab.com",
	"finance@twilio.com",
	"r.garcia@telefonica.es",
	"it@unilever.com",
	"office@bosch.de",
	"someone@gmail.com",
	"founder@tiny-startup.example",
	"l.martin@airbus.com",
	"press@spotify.com",
	"dev@vercel.com",
	"hr@ikea.com",
	"contact@doctolib.fr",
	"admin@mongodb.com",
	"p.kowalski@allegro.pl",
	"events@salesforce.com",
	"noreply@github.com",
	"security@okta.com",
	"s.ivanova@jetbrains.com",
	"partners@snowflake.com",
}

var (
	seedFileName = flag.String("src", "", "file of contact emails, one per line")
	databaseURL  = flag.String("db", os.Getenv("ENRICHIT_DATABASE_URL"), "customer database connection URL")
	startID      = flag.Int64("start-id", 1, "identifier of the first inserted customer")
	batchSize    = flag.Int("batch", 100, "customers per COPY")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// customersFrom numbers emails from firstID, skipping blank lines and invalid addresses.
func customersFrom(source iter.Seq[string], firstID core.CustomerID) iter.Seq[core.Customer] {
	return func(yield func(core.Customer) bool) {
		id := firstID
		for line := range source {
			email := strings.TrimSpace(line)
			if email == "" || strings.HasPrefix(email, "#") {
				continue
			}
			c := core.Customer{ID: id, Email: email}
			if err := core.ValidateCustomer(&c); err != nil {
				slog.Warn("skipping contact", "email", email, "err", err)
				continue
			}
			if !yield(c) {
				return
			}
			id++
		}
	}
}

// insertBatched reads customers and inserts them in batches.
func insertBatched(ctx context.Context, store *postgres.Store, source iter.Seq[core.Customer], batchSize int) (int64, error) {
	var total int64
	batch := make([]core.Customer, 0, batchSize)

	for c := range source {
		batch = append(batch, c)
		if len(batch) == batchSize {
			n, err := store.InsertCustomers(ctx, batch)
			if err != nil {
				return total, err
			}
			total += n
			batch = batch[:0]
		}
	}

	// Insert any remaining customers
	if len(batch) > 0 {
		n, err := store.InsertCustomers(ctx, batch)
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg := postgres.DefaultConfig()
	if *databaseURL != "" {
		cfg.URL = *databaseURL
	}

	store, err := postgres.Open(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	if err := store.CreateCustomersTable(ctx); err != nil {
		panic(err)
	}

	// Determine source of seed data
	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(contacts)
	}

	n, err := insertBatched(ctx, store, customersFrom(source, core.CustomerID(*startID)), max(*batchSize, 1))
	if err != nil {
		panic(err)
	}
	slog.Info("customers inserted", "count", n)
}
