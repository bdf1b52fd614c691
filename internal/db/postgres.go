package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sitewatch/safety-backend/internal/logger"
	"github.com/sitewatch/safety-backend/internal/types"
	"github.com/sitewatch/safety-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "safetywatch", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Client{},
		&types.User{},
		&types.UserToken{},
		&types.Category{},
		&types.Site{},
		&types.Zone{},
		&types.MasterData{},
		&types.Violation{},
		&types.History{},
		&types.Setting{},
		&types.ChatMessage{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		name string
		stmt string
	}{
		{
			name: "fk_user_tokens_user_id",
			stmt: `ALTER TABLE "user_tokens" ADD CONSTRAINT "fk_user_tokens_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
		{
			name: "fk_violations_master_data_id",
			stmt: `ALTER TABLE "violations" ADD CONSTRAINT "fk_violations_master_data_id" FOREIGN KEY ("master_data_id") REFERENCES "masterdata"("id")`,
		},
		{
			name: "fk_violations_category_id",
			stmt: `ALTER TABLE "violations" ADD CONSTRAINT "fk_violations_category_id" FOREIGN KEY ("category_id") REFERENCES "categories"("id")`,
		},
		{
			name: "fk_violations_site_id",
			stmt: `ALTER TABLE "violations" ADD CONSTRAINT "fk_violations_site_id" FOREIGN KEY ("site_id") REFERENCES "sites"("id")`,
		},
		{
			name: "fk_violations_zone_id",
			stmt: `ALTER TABLE "violations" ADD CONSTRAINT "fk_violations_zone_id" FOREIGN KEY ("zone_id") REFERENCES "zones"("id")`,
		},
	}
	for _, c := range constraints {
		var exists int64
		s.db.Raw(`SELECT COUNT(1) FROM pg_constraint WHERE conname = ?`, c.name).Scan(&exists)
		if exists > 0 {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
