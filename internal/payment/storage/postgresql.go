package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"ms-bookings/internal/config"
	"ms-bookings/internal/logger"
	"ms-bookings/internal/models"
)

// PostgreSQLStore is the payment ledger: one row per settled payment,
// kept for the admin payment history. Raw database/sql, separate from the
// bun-managed booking tables.
type PostgreSQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPostgreSQLStoreWithDB reuses an existing connection.
func NewPostgreSQLStoreWithDB(db *sql.DB, log *logger.Logger) (*PostgreSQLStore, error) {
	store := &PostgreSQLStore{db: db, log: log}
	if err := store.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize payments table: %w", err)
	}
	return store, nil
}

func NewPostgreSQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*PostgreSQLStore, error) {
	log.LogDatabase("CONNECT", "payments", fmt.Sprintf("connecting to PostgreSQL at %s:%s", cfg.Host, cfg.Port))

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgreSQLStoreWithDB(db, log)
}

func (s *PostgreSQLStore) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			id         TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			amount     NUMERIC NOT NULL,
			method     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

func (s *PostgreSQLStore) RecordPayment(ctx context.Context, p models.PaymentRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, booking_id, amount, method, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.BookingID, p.Amount, p.Method, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment %s: %w", p.ID, err)
	}
	s.log.LogDatabase("INSERT", "payments", fmt.Sprintf("recorded %s for booking %s", p.ID, p.BookingID))
	return nil
}

func (s *PostgreSQLStore) PaymentsByBooking(ctx context.Context, bookingID string) ([]models.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, booking_id, amount, method, created_at FROM payments WHERE booking_id = $1 ORDER BY created_at DESC`,
		bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.PaymentRecord{}
	for rows.Next() {
		var p models.PaymentRecord
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func (s *PostgreSQLStore) Close() error {
	return s.db.Close()
}
