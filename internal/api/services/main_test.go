package services

import (
	"log"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"genetix/internal/testutil"
)

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	db, err := testutil.SetupTestDB("../../../.env.test", "../../../migrations")
	if err != nil {
		log.Printf("[TestMain services] test database unavailable: %v", err)
		testDB = nil
	} else {
		testDB = db
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}
