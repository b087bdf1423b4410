package main

import (
	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
)

// withDB opens the configured database, runs fn and closes the connection.
// Errors from fn and from closing are both returned.
func withDB(fn func(db *gorm.DB) error) (err error) {
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL,
		database.NewLogger(database.ParseLogLevel(cfg.DBLogLevel)))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			err = multierror.Append(err, closeErr)
		}
	}()
	return fn(db)
}
