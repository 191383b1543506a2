package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/cakeshop/internal/database"
	"github.com/example/cakeshop/internal/models"
)

// setupTestDB opens a per-test in-memory database with the full schema. The
// database name is derived from the test name so parallel tests never share
// state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func createTestBuyer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := models.NewUser(
		fmt.Sprintf("buyer-%s@example.com", uuid.NewString()[:8]),
		"Test", "Buyer", "not-a-real-hash", models.RoleBuyer,
	)
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Address {
	t.Helper()

	address := models.Address{
		UserID:       userID,
		Name:         "Test Buyer",
		Phone:        "9999999999",
		AddressLine1: "12 Baker Street",
		City:         "Pune",
		State:        "MH",
		Pincode:      "411001",
		IsDefault:    true,
	}
	require.NoError(t, db.Create(&address).Error)
	return &address
}

// createTestVariant seeds a seller, a cake and one purchasable variant.
func createTestVariant(t *testing.T, db *gorm.DB, price string, stock int) *models.CakeVariant {
	t.Helper()

	seller := models.NewUser(
		fmt.Sprintf("seller-%s@example.com", uuid.NewString()[:8]),
		"Test", "Seller", "not-a-real-hash", models.RoleSeller,
	)
	seller.IsApproved = true
	require.NoError(t, db.Create(&seller).Error)

	cake := models.Cake{
		SellerID: seller.ID,
		Title:    "Chocolate Truffle",
		Flavor:   "chocolate",
		Dietary:  models.DietaryEggless,
		IsActive: true,
	}
	require.NoError(t, db.Create(&cake).Error)

	variant := models.CakeVariant{
		CakeID: cake.ID,
		Weight: "0.5",
		Price:  mustDecimal(t, price),
		Stock:  stock,
	}
	require.NoError(t, db.Create(&variant).Error)
	return &variant
}

func variantStock(t *testing.T, db *gorm.DB, variantID uuid.UUID) int {
	t.Helper()

	var variant models.CakeVariant
	require.NoError(t, db.First(&variant, "id = ?", variantID).Error)
	return variant.Stock
}
