package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
)

type productWriter interface {
	CreateProduct(ctx context.Context, p *models.Product) error
}

// storefront seed products.json: load the catalogue that carts reference.
var seedCmd = &cobra.Command{
	Use:   "seed <products.json>",
	Short: "Insert products from a JSON array into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.ValidateStore(); err != nil {
			return err
		}
		l := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		products, err := loadProducts(f)
		if err != nil {
			return err
		}

		store, err := openStore(cmd.Context(), cfg, l)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := seedProducts(cmd.Context(), store, products)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products.\n", n)
		return nil
	},
}

func loadProducts(r io.Reader) ([]models.Product, error) {
	var products []models.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for i, p := range products {
		if p.Name == "" {
			return nil, fmt.Errorf("product %d: name is required", i)
		}
	}
	return products, nil
}

func seedProducts(ctx context.Context, w productWriter, products []models.Product) (int, error) {
	for i := range products {
		if err := w.CreateProduct(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("create product %q: %w", products[i].Name, err)
		}
	}
	return len(products), nil
}
