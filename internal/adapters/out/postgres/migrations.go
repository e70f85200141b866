package postgres

import (
	"orderhub/internal/adapters/out/postgres/assignmentrepo"
	"orderhub/internal/adapters/out/postgres/idempotencyrepo"
	"orderhub/internal/adapters/out/postgres/orderrepo"
	"orderhub/internal/adapters/out/postgres/sequencerepo"

	"gorm.io/gorm"
)

// Models lists every table owned by the order hub.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&assignmentrepo.AssignmentDTO{},
		&idempotencyrepo.IdempotencyKeyDTO{},
		&sequencerepo.SequenceDTO{},
	}
}

// Migrate creates or updates the schema and seeds the order number counter.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return sequencerepo.Seed(db)
}
