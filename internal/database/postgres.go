package database

import (
	"fmt"
	"time"

	"hotel-pipeline/internal/config"
	"hotel-pipeline/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	db *gorm.DB
}

// NewGormDB opens a PostgreSQL connection and verifies it with a ping
func NewGormDB(cfg config.DatabaseConfig) (*GormDB, error) {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	gdb := &GormDB{db: db}
	if err := gdb.Ping(); err != nil {
		return nil, err
	}

	return gdb, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database liveness
func (gdb *GormDB) Ping() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// InitSchema creates tables using GORM AutoMigrate. Safe to call when the
// tables already exist.
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.Customer{},
		&models.Booking{},
		&models.SupportLog{},
	)
}

// InsertCustomers persists a batch of customers in a single transaction.
// Autoincrement customer IDs are written back into the slice elements.
func (gdb *GormDB) InsertCustomers(customers []*models.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&customers).Error
	})
}

// InsertBookings persists a batch of bookings in a single transaction
func (gdb *GormDB) InsertBookings(bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(bookings, 500).Error
	})
}

// InsertSupportLogs persists a batch of support logs in a single transaction
func (gdb *GormDB) InsertSupportLogs(logs []models.SupportLog) error {
	if len(logs) == 0 {
		return nil
	}
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(logs, 500).Error
	})
}

// ListCustomers retrieves all customers
func (gdb *GormDB) ListCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	err := gdb.db.Order("customer_id").Find(&customers).Error
	return customers, err
}

// ListBookings retrieves all bookings
func (gdb *GormDB) ListBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := gdb.db.Find(&bookings).Error
	return bookings, err
}

// ListSupportLogs retrieves all support logs
func (gdb *GormDB) ListSupportLogs() ([]models.SupportLog, error) {
	var logs []models.SupportLog
	err := gdb.db.Find(&logs).Error
	return logs, err
}

// CountCustomers returns the number of customer rows
func (gdb *GormDB) CountCustomers() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Customer{}).Count(&n).Error
	return n, err
}

// CountBookings returns the number of booking rows
func (gdb *GormDB) CountBookings() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.Booking{}).Count(&n).Error
	return n, err
}

// CountSupportLogs returns the number of support log rows
func (gdb *GormDB) CountSupportLogs() (int64, error) {
	var n int64
	err := gdb.db.Model(&models.SupportLog{}).Count(&n).Error
	return n, err
}

// DeleteBookingsBefore bulk-deletes bookings with a check-in date before
// the cutoff and returns the number of deleted rows.
func (gdb *GormDB) DeleteBookingsBefore(cutoff time.Time) (int64, error) {
	res := gdb.db.Where("check_in_date < ?", cutoff).Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}

// DeleteSupportLogsBefore bulk-deletes support logs older than the cutoff
// and returns the number of deleted rows.
func (gdb *GormDB) DeleteSupportLogsBefore(cutoff time.Time) (int64, error) {
	res := gdb.db.Where("date < ?", cutoff).Delete(&models.SupportLog{})
	return res.RowsAffected, res.Error
}

// DeleteCustomersWithoutBookings deletes every customer with no remaining
// booking reference. Must run after the booking purge so the orphan scan
// sees the post-deletion booking set.
func (gdb *GormDB) DeleteCustomersWithoutBookings() (int64, error) {
	sub := gdb.db.Model(&models.Booking{}).Distinct("customer_id")
	res := gdb.db.Where("customer_id NOT IN (?)", sub).Delete(&models.Customer{})
	return res.RowsAffected, res.Error
}
