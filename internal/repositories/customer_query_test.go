package repositories

import (
	"testing"

	"pizzashop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRun opens a dialect that renders SQL without a server.
func dryRun(t *testing.T, dialector gorm.Dialector) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(dialector, &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestPhoneQueryLocking(t *testing.T) {
	dialects := map[string]gorm.Dialector{
		"mysql":    mysql.New(mysql.Config{DSN: "user:pass@tcp(localhost:3306)/pizzashop", SkipInitializeWithVersion: true}),
		"postgres": postgres.New(postgres.Config{DSN: "host=localhost user=pizzashop dbname=pizzashop"}),
	}

	for name, dialector := range dialects {
		t.Run(name, func(t *testing.T) {
			db := dryRun(t, dialector)

			plain := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				return phoneQuery(tx, "555-0100", false).Find(&[]models.Customer{})
			})
			locked := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				return phoneQuery(tx, "555-0100", true).Find(&[]models.Customer{})
			})

			assert.NotContains(t, plain, "FOR SHARE")
			assert.Contains(t, locked, "FOR SHARE")
			assert.Contains(t, locked, "555-0100")
		})
	}
}
