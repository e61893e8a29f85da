package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		user_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		address TEXT NOT NULL,
		profile_image_id TEXT NOT NULL DEFAULT '',
		profile_image_url TEXT NOT NULL DEFAULT '',
		bank_account_number TEXT NOT NULL DEFAULT '',
		bank_account_name TEXT NOT NULL DEFAULT '',
		bank_name TEXT NOT NULL DEFAULT '',
		razorpay_account_number TEXT NOT NULL DEFAULT '',
		paypal_email TEXT NOT NULL DEFAULT '',
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		otp BIGINT,
		otp_issued_at DATETIME,
		money_spent BIGINT NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
