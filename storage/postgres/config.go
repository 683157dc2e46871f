package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Config holds connection and layout settings for the customer database.
type Config struct {
	// URL is a libpq connection string or postgres:// URL.
	URL string

	// Schema holds both tables. Default: "public"
	Schema string

	// CustomersTable is the table enriched in place. Default: "customers"
	CustomersTable string

	// IndustriesTable is the staging table. Default: "industries"
	IndustriesTable string

	// EmailColumn is the contact address column of CustomersTable. Default: "contact_email"
	EmailColumn string

	// AttributeColumn is the column written on both tables. Default: "industry"
	AttributeColumn string

	// ConnectTimeout bounds the initial ping. Default: 10s
	ConnectTimeout time.Duration
}

// DefaultConfig returns a Config for a local development database.
func DefaultConfig() *Config {
	return &Config{
		URL:             "postgres://postgres@127.0.0.1:5432/postgres?sslmode=disable",
		Schema:          "public",
		CustomersTable:  "customers",
		IndustriesTable: "industries",
		EmailColumn:     "contact_email",
		AttributeColumn: "industry",
		ConnectTimeout:  10 * time.Second,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		return errors.New("postgres config: URL is required")
	}
	for name, v := range map[string]string{
		"Schema":          c.Schema,
		"CustomersTable":  c.CustomersTable,
		"IndustriesTable": c.IndustriesTable,
		"EmailColumn":     c.EmailColumn,
		"AttributeColumn": c.AttributeColumn,
	} {
		if strings.TrimSpace(v) == "" {
			return errors.New("postgres config: " + name + " is required")
		}
	}
	if c.CustomersTable == c.IndustriesTable {
		return errors.New("postgres config: staging table must differ from customers table")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("postgres config: ConnectTimeout must be positive")
	}
	return nil
}

func (c *Config) customersIdent() pgx.Identifier {
	return pgx.Identifier{c.Schema, c.CustomersTable}
}

func (c *Config) industriesIdent() pgx.Identifier {
	return pgx.Identifier{c.Schema, c.IndustriesTable}
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
