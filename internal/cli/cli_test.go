package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pizzashop/internal/config"
	"pizzashop/internal/database"
	"pizzashop/internal/logger"
	"pizzashop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSQLiteConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "pizzashop.db")
	configPath = filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("database:\n  driver: sqlite\n  dsn: %q\n  connect_retries: 1\nlog:\n  level: error\n", "file:"+dbPath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath, dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pizzashop dev")
}

func TestMigrateAndSeed(t *testing.T) {
	configPath, dbPath := writeSQLiteConfig(t)

	_, err := run(t, "migrate", "--config", configPath)
	require.NoError(t, err)

	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
pizzas:
  - name: Margherita
    prices: {small: "10.00", medium: "12.00", large: "14.00", extra_large: "16.00"}
  - name: Pepperoni
    description: Spicy
    prices: {small: "11.50", medium: "13.50", large: "15.50", extra_large: "17.50"}
`), 0o600))

	out, err := run(t, "seed", "--config", configPath, "--file", catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 pizzas")

	// Seeding again updates rather than duplicates.
	_, err = run(t, "seed", "--config", configPath, "--file", catalogPath)
	require.NoError(t, err)

	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + dbPath, ConnectRetries: 1}, "info", logger.Nop())
	require.NoError(t, err)
	defer database.Close(db)

	pizzas, err := repositories.NewGORMPizzaRepository(db).GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pizzas, 2)
	assert.Equal(t, "Pepperoni", pizzas[1].Name)
	assert.Equal(t, "17.50", pizzas[1].ExtraLargePrice.String())
}

func TestParseCatalog(t *testing.T) {
	pizzas, err := parseCatalog(strings.NewReader(`
pizzas:
  - name: " Margherita "
    prices: {small: "10", medium: "12", large: "14", extra_large: "16"}
`))
	require.NoError(t, err)
	require.Len(t, pizzas, 1)
	assert.Equal(t, "Margherita", pizzas[0].Name)
	assert.Equal(t, "16.00", pizzas[0].ExtraLargePrice.String())

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "pizzas: []\n", "no pizzas"},
		{"duplicate", "pizzas:\n  - name: A\n    prices: {small: '1', medium: '1', large: '1', extra_large: '1'}\n  - name: a\n    prices: {small: '1', medium: '1', large: '1', extra_large: '1'}\n", "listed twice"},
		{"bad price", "pizzas:\n  - name: A\n    prices: {small: 'cheap', medium: '1', large: '1', extra_large: '1'}\n", "Small price"},
		{"negative price", "pizzas:\n  - name: A\n    prices: {small: '-1', medium: '1', large: '1', extra_large: '1'}\n", "negative"},
		{"missing name", "pizzas:\n  - prices: {small: '1', medium: '1', large: '1', extra_large: '1'}\n", "name is required"},
		{"unknown field", "pizzas:\n  - name: A\n    toppings: [cheese]\n", "toppings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(tt.doc))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
