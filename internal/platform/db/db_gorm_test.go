package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestNewOpener_UnsupportedDriver は未対応ドライバーでエラーが返されることを検証します。
func TestNewOpener_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := NewOpener(Config{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

// TestOpen_SQLiteInMemory はSQLiteドライバーで接続・マイグレーション・疎通確認ができることを検証します。
func TestOpen_SQLiteInMemory(t *testing.T) {
	t.Parallel()

	type widget struct {
		ID   uint `gorm:"primaryKey"`
		Name string
	}

	db, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:", ConnectTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Migrate(db, &widget{}); err != nil {
		t.Fatalf("unexpected migrate error: %v", err)
	}
	if err := Ping(db); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if !db.Config.TranslateError {
		t.Error("expected TranslateError to be enabled")
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// retryInterval を書き換えるため並列実行しない
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = orig })

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = orig })

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 50*time.Millisecond, opener)

	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount < 2 {
		t.Errorf("expected retries, got %d attempts", attemptCount)
	}
}
