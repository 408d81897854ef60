package database

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/civicwatch/infra-report-api/internal/config"
	"github.com/civicwatch/infra-report-api/internal/models"
)

// DefaultAdminUsername is the account created by Reset.
const DefaultAdminUsername = "admin"

var defaultIssueTypes = []models.IssueType{
	{TypeName: "Road Damage", Description: "Potholes, cracks and other roadway damage"},
	{TypeName: "Power Outage", Description: "Electricity supply interruptions"},
	{TypeName: "Water Issue", Description: "Leaks, supply problems and flooding"},
	{TypeName: "Traffic Signal Problem", Description: "Malfunctioning or damaged traffic signals"},
	{TypeName: "Public Space Issue", Description: "Parks, sidewalks and other shared spaces"},
	{TypeName: "Other", Description: "Anything that does not fit another category"},
}

// Connect opens a database handle for the configured driver. The handle is
// owned by the caller; nothing in this package retains it.
func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("driver", cfg.DBDriver),
		zap.String("database", cfg.DBName),
	)
	return db, nil
}

// Migrate brings the schema up to date and seeds reference data. It is
// idempotent: existing tables, indexes and seed rows are left untouched.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.IssueType{},
		&models.Report{},
		&models.AdminAction{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedIssueTypes(db); err != nil {
		return fmt.Errorf("failed to seed issue types: %w", err)
	}

	logger.Info("database migrations completed")
	return nil
}

// seedIssueTypes inserts the default issue types, keyed on type_name.
func seedIssueTypes(db *gorm.DB) error {
	for _, t := range defaultIssueTypes {
		var row models.IssueType
		err := db.
			Where(models.IssueType{TypeName: t.TypeName}).
			Attrs(models.IssueType{Description: t.Description}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("issue type %q: %w", t.TypeName, err)
		}
	}
	return nil
}

// Reset drops every table and rebuilds the schema, then creates the default
// admin account. Destructive; callers must obtain explicit confirmation
// before invoking it, and it must never run as part of normal startup.
func Reset(db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	if cfg.DefaultAdminPassword == "" {
		return fmt.Errorf("reset requires DEFAULT_ADMIN_PASSWORD to be set")
	}

	logger.Warn("resetting database schema, all data will be dropped")

	err := db.Migrator().DropTable(
		&models.AdminAction{},
		&models.Report{},
		&models.IssueType{},
		&models.User{},
	)
	if err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	if err := Migrate(db, logger); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &models.User{
		Username:     DefaultAdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	logger.Info("database reset completed", zap.String("admin", DefaultAdminUsername))
	return nil
}
