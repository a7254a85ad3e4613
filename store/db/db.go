package db

import (
	"github.com/pkg/errors"

	"github.com/voicecart/voicecart/internal/profile"
	"github.com/voicecart/voicecart/store"
	"github.com/voicecart/voicecart/store/db/postgres"
	"github.com/voicecart/voicecart/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the default for development and single-node deployments;
// PostgreSQL is for shared deployments. Both implement the full Driver
// interface.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
