package repository

import (
	"fmt"

	"docportal/internal/config"
	"docportal/internal/db"
)

// Backends accepted by USERS_STORE.
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
)

// Open returns the user repository selected by cfg.UsersStore.
func Open(cfg *config.Config) (UserRepository, error) {
	switch cfg.UsersStore {
	case BackendFile, "":
		return NewFileUserRepository(cfg.UsersFile), nil
	case BackendMySQL:
		gormDB, err := db.NewMySQL(cfg.MySQLDSN, !cfg.IsProduction())
		if err != nil {
			return nil, err
		}
		if err := Migrate(gormDB); err != nil {
			return nil, err
		}
		return NewGormUserRepository(gormDB), nil
	default:
		return nil, fmt.Errorf("unknown users store %q (want %s or %s)", cfg.UsersStore, BackendFile, BackendMySQL)
	}
}
