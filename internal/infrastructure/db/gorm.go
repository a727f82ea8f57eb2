package db

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	investmentDomain "invofin-backend/internal/domain/investment"
	invoiceDomain "invofin-backend/internal/domain/invoice"
	walletDomain "invofin-backend/internal/domain/wallet"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for every persisted aggregate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&invoiceDomain.Invoice{},
		&walletDomain.Wallet{},
		&walletDomain.Entry{},
		&investmentDomain.Investment{},
	)
}
