package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const contractsTable = "contracts"

var (
	// ContractsColumns holds the columns for the "contracts" table.
	ContractsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "user_id", Type: field.TypeUUID, Nullable: true},
		{Name: "contract_holder_name", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "contract_identifier", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "renewal_date", Type: field.TypeTime, Nullable: true, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "service_product", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "contact_email", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "file_path", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ContractsTable holds the schema information for the "contracts" table.
	ContractsTable = &schema.Table{
		Name:       contractsTable,
		Columns:    ContractsColumns,
		PrimaryKey: []*schema.Column{ContractsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "contract_user_id_created_at", Columns: []*schema.Column{ContractsColumns[1], ContractsColumns[8]}},
			{Name: "contract_user_id_renewal_date", Columns: []*schema.Column{ContractsColumns[1], ContractsColumns[4]}},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{ContractsTable}
)

// EnsureSchema creates or updates the tables through ent's migration engine.
// It is a bootstrap for local and test databases, not a migration workflow.
func EnsureSchema(ctx context.Context, db *DB) error {
	m, err := schema.NewMigrate(db.Driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
