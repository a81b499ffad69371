package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pizzashop/internal/database"
	"pizzashop/internal/models"
	"pizzashop/internal/repositories"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML layout accepted by `pizzashop seed`. Prices are
// decimal strings so they are never rounded through float64.
type catalogFile struct {
	Pizzas []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Prices      struct {
			Small      string `yaml:"small"`
			Medium     string `yaml:"medium"`
			Large      string `yaml:"large"`
			ExtraLarge string `yaml:"extra_large"`
		} `yaml:"prices"`
	} `yaml:"pizzas"`
}

func newSeedCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the pizza catalog from a YAML file",
		Long:  "Insert or update pizzas by name from a catalog file. Existing orders keep pointing at the same pizza rows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("opening catalog: %w", err)
			}
			defer f.Close()

			pizzas, err := parseCatalog(f)
			if err != nil {
				return err
			}

			cfg, log, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database, cfg.Log.Level, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			repo := repositories.NewGORMPizzaRepository(db)
			for i := range pizzas {
				if err := repo.Upsert(cmd.Context(), &pizzas[i]); err != nil {
					return err
				}
			}
			log.Info("catalog seeded", "file", file, "pizzas", len(pizzas))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d pizzas\n", len(pizzas))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "configs/catalog.yaml", "catalog file to load")
	return cmd
}

func parseCatalog(r io.Reader) ([]models.Pizza, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(file.Pizzas) == 0 {
		return nil, fmt.Errorf("catalog has no pizzas")
	}

	seen := make(map[string]bool, len(file.Pizzas))
	pizzas := make([]models.Pizza, 0, len(file.Pizzas))
	for i, p := range file.Pizzas {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("pizza %d: name is required", i)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("pizza %q listed twice", name)
		}
		seen[key] = true

		pizza := models.Pizza{Name: name, Description: strings.TrimSpace(p.Description)}
		prices := []struct {
			raw  string
			size models.Size
			dst  *models.Money
		}{
			{p.Prices.Small, models.SizeSmall, &pizza.SmallPrice},
			{p.Prices.Medium, models.SizeMedium, &pizza.MediumPrice},
			{p.Prices.Large, models.SizeLarge, &pizza.LargePrice},
			{p.Prices.ExtraLarge, models.SizeExtraLarge, &pizza.ExtraLargePrice},
		}
		for _, price := range prices {
			m, err := models.NewMoney(price.raw)
			if err != nil {
				return nil, fmt.Errorf("pizza %q %s price: %w", name, price.size, err)
			}
			if m.IsNegative() {
				return nil, fmt.Errorf("pizza %q %s price is negative", name, price.size)
			}
			*price.dst = m
		}
		pizzas = append(pizzas, pizza)
	}
	return pizzas, nil
}
