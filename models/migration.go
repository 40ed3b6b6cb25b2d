package models

import (
	"github.com/mmdatafocus/backoffice_backend/config"
	"gorm.io/gorm"
)

// migratedModels lists the tables owned by this service, parents first.
func migratedModels() []interface{} {
	return []interface{}{
		&User{},
		&Customer{}, &Vehicle{},
		&Sale{}, &ServiceRecord{},
		&Expense{},
		&ExchangeRate{},
	}
}

func MigrateTable() error {
	db := config.GetDB()

	return db.AutoMigrate(migratedModels()...)
}

// PendingTables names the tables AutoMigrate would create.
func PendingTables() ([]string, error) {
	db := config.GetDB()
	migrator := db.Migrator()

	var pending []string
	for _, model := range migratedModels() {
		if migrator.HasTable(model) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		pending = append(pending, stmt.Schema.Table)
	}
	return pending, nil
}
