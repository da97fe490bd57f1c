package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"sevaportal/internal/model"
)

// dryRunDB builds statements against the MySQL dialect without connecting.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "seva:seva@tcp(127.0.0.1:3306)/seva?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestLockRowTakesExclusiveLock(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var order model.Order
		return lockRow(tx, &order, 7)
	})
	assert.Contains(t, sql, "FROM `orders`")
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestSetOrderColumnWritesOnlyThatColumn(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return setOrderColumn(tx, 7, "payment_status", model.PaymentStatusPaid)
	})
	assert.Contains(t, sql, "UPDATE `orders` SET `payment_status`='paid'")
	assert.NotContains(t, sql, "`status`")
	assert.NotContains(t, sql, "`amount`")

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return setOrderColumn(tx, 7, "status", model.OrderStatusCompleted)
	})
	assert.Contains(t, sql, "`status`='completed'")
	assert.NotContains(t, sql, "`payment_status`")
}

func TestProfileUpdateWritesOnlyProfileColumns(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return profileUpdate(tx, 3, "Asha", "asha@example.com", "9876543210")
	})
	assert.Contains(t, sql, "UPDATE `users` SET")
	assert.Contains(t, sql, "`email`='asha@example.com'")
	for _, col := range []string{"`role`", "`referral_rewards`", "`password_hash`", "`username`"} {
		assert.NotContains(t, sql, col)
	}
}

func TestByCategoryMatchesCaseSensitively(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var services []model.Service
		return byCategory(tx, "Identity").Find(&services)
	})
	assert.Contains(t, sql, "BINARY category = 'Identity'")
	assert.Contains(t, sql, "ORDER BY id")
}
