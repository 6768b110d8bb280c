package mqttacl

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// Migrations returns all database migrations required for mqttacl.
// Use dbkit.Migrate(ctx, service.Migrations()) to run migrations.
// Use dbkit.MigrationStatus(ctx, service.Migrations()) to check status.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "mqttacl-001",
			Description: "Create topics table",
			SQL: `
                CREATE TABLE IF NOT EXISTS topics (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    name VARCHAR(1024) NOT NULL UNIQUE,
                    wildcard BOOLEAN NOT NULL DEFAULT false,
                    dollar BOOLEAN NOT NULL DEFAULT false,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                );
                CREATE INDEX IF NOT EXISTS idx_topics_class ON topics (dollar, wildcard)`,
		},
		{
			ID:          "mqttacl-002",
			Description: "Create acl_rules table",
			SQL: `
                CREATE TABLE IF NOT EXISTS acl_rules (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    allow BOOLEAN NOT NULL DEFAULT true,
                    topic VARCHAR(1024) NOT NULL,
                    wildcard BOOLEAN NOT NULL DEFAULT false,
                    dollar BOOLEAN NOT NULL DEFAULT false,
                    access INTEGER NOT NULL,
                    users TEXT[],
                    groups TEXT[],
                    secret VARCHAR(512),
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (topic, access)
                );
                CREATE INDEX IF NOT EXISTS idx_acl_rules_wildcard ON acl_rules (access, wildcard)`,
		},
		{
			ID:          "mqttacl-003",
			Description: "Create client_ids table",
			SQL: `
                CREATE TABLE IF NOT EXISTS client_ids (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    name VARCHAR(23) UNIQUE,
                    users TEXT[],
                    groups TEXT[],
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "mqttacl-004",
			Description: "Create group_memberships table",
			SQL: `
                CREATE TABLE IF NOT EXISTS group_memberships (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    user_id TEXT NOT NULL,
                    group_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (user_id, group_id)
                );
                CREATE INDEX IF NOT EXISTS idx_group_memberships_user ON group_memberships (user_id)`,
		},
	}
}
