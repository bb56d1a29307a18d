// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateClient(ctx context.Context, c *model.Client) error {
	return queryCreateClient(ctx, s.db, c)
}

func (s *PostgresStore) GetClient(ctx context.Context, id string) (*model.Client, error) {
	return queryGetClient(ctx, s.db, id)
}

func (s *PostgresStore) GetClientBySlug(ctx context.Context, slug string) (*model.Client, error) {
	return queryGetClientBySlug(ctx, s.db, slug)
}

func (s *PostgresStore) ListClients(ctx context.Context, search string, limit, offset int) ([]*model.Client, int, error) {
	return queryListClients(ctx, s.db, search, limit, offset)
}

func (s *PostgresStore) UpdateClient(ctx context.Context, c *model.Client) error {
	return queryUpdateClient(ctx, s.db, c)
}

func (s *PostgresStore) DeleteClient(ctx context.Context, id string) error {
	return queryDeleteClient(ctx, s.db, id)
}

func (s *PostgresStore) CreateBrief(ctx context.Context, b *model.Brief) error {
	return queryCreateBrief(ctx, s.db, b)
}

func (s *PostgresStore) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	return queryGetBrief(ctx, s.db, id)
}

func (s *PostgresStore) ListBriefs(ctx context.Context, filter model.BriefFilter) ([]*model.Brief, int, error) {
	return queryListBriefs(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateBrief(ctx context.Context, b *model.Brief) error {
	return queryUpdateBrief(ctx, s.db, b)
}

func (s *PostgresStore) DeleteBrief(ctx context.Context, id string) error {
	return queryDeleteBrief(ctx, s.db, id)
}

func (s *PostgresStore) CreateMotivations(ctx context.Context, ms []*model.Motivation) error {
	return queryCreateMotivations(ctx, s.db, ms)
}

func (s *PostgresStore) GetMotivation(ctx context.Context, id string) (*model.Motivation, error) {
	return queryGetMotivation(ctx, s.db, id)
}

func (s *PostgresStore) ListMotivations(ctx context.Context, filter model.MotivationFilter) ([]*model.Motivation, error) {
	return queryListMotivations(ctx, s.db, filter)
}

func (s *PostgresStore) SetMotivationSelected(ctx context.Context, id string, selected bool) error {
	return querySetMotivationSelected(ctx, s.db, id, selected)
}

func (s *PostgresStore) CreateCopyVariants(ctx context.Context, cs []*model.CopyVariant) error {
	return queryCreateCopyVariants(ctx, s.db, cs)
}

func (s *PostgresStore) GetCopyVariant(ctx context.Context, id string) (*model.CopyVariant, error) {
	return queryGetCopyVariant(ctx, s.db, id)
}

func (s *PostgresStore) ListCopyVariants(ctx context.Context, filter model.CopyFilter) ([]*model.CopyVariant, error) {
	return queryListCopyVariants(ctx, s.db, filter)
}

func (s *PostgresStore) SetCopyVariantSelected(ctx context.Context, id string, selected bool) error {
	return querySetCopyVariantSelected(ctx, s.db, id, selected)
}

func (s *PostgresStore) CreateAsset(ctx context.Context, a *model.Asset) error {
	return queryCreateAsset(ctx, s.db, a)
}

func (s *PostgresStore) GetAsset(ctx context.Context, id string) (*model.Asset, error) {
	return queryGetAsset(ctx, s.db, id)
}

func (s *PostgresStore) ListAssets(ctx context.Context, filter model.AssetFilter) ([]*model.Asset, int, error) {
	return queryListAssets(ctx, s.db, filter)
}

func (s *PostgresStore) DeleteAsset(ctx context.Context, id string) error {
	return queryDeleteAsset(ctx, s.db, id)
}

func (s *PostgresStore) CreateMatrix(ctx context.Context, m *model.Matrix) error {
	return queryCreateMatrix(ctx, s.db, m)
}

func (s *PostgresStore) GetMatrix(ctx context.Context, id string) (*model.Matrix, error) {
	return queryGetMatrix(ctx, s.db, id)
}

func (s *PostgresStore) ListMatrices(ctx context.Context, clientID string, limit, offset int) ([]*model.Matrix, int, error) {
	return queryListMatrices(ctx, s.db, clientID, limit, offset)
}

func (s *PostgresStore) DeleteMatrix(ctx context.Context, id string) error {
	return queryDeleteMatrix(ctx, s.db, id)
}

func (s *PostgresStore) CreateExecutions(ctx context.Context, es []*model.Execution) error {
	return queryCreateExecutions(ctx, s.db, es)
}

func (s *PostgresStore) GetExecution(ctx context.Context, id string) (*model.Execution, error) {
	return queryGetExecution(ctx, s.db, id)
}

func (s *PostgresStore) ListExecutions(ctx context.Context, filter model.ExecutionFilter) ([]*model.Execution, int, error) {
	return queryListExecutions(ctx, s.db, filter)
}

func (s *PostgresStore) QueueExecution(ctx context.Context, id string) (*model.Execution, error) {
	return queryQueueExecution(ctx, s.db, id)
}

func (s *PostgresStore) ClaimExecution(ctx context.Context, id string) (*model.Execution, error) {
	return queryClaimExecution(ctx, s.db, id)
}

func (s *PostgresStore) CompleteExecution(ctx context.Context, id, renderJobID, outputURL string) (*model.Execution, error) {
	return queryCompleteExecution(ctx, s.db, id, renderJobID, outputURL)
}

func (s *PostgresStore) FailExecution(ctx context.Context, id, renderJobID, message string) (*model.Execution, error) {
	return queryFailExecution(ctx, s.db, id, renderJobID, message)
}

func (s *PostgresStore) SetExecutionMetadata(ctx context.Context, id string, metadata []byte) error {
	return querySetExecutionMetadata(ctx, s.db, id, metadata)
}

func (s *PostgresStore) ExecutionStats(ctx context.Context) (*model.ExecutionStats, error) {
	return queryExecutionStats(ctx, s.db)
}

func (s *PostgresStore) RecordUsage(ctx context.Context, u *model.UsageRecord) error {
	return queryRecordUsage(ctx, s.db, u)
}

func (s *PostgresStore) SumMonthlyCost(ctx context.Context, service string, month time.Time) (float64, error) {
	return querySumMonthlyCost(ctx, s.db, service, month)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, e *model.Event) error {
	return queryRecordEvent(ctx, s.db, e)
}

func (s *PostgresStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.db, entityID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateClient(ctx context.Context, c *model.Client) error {
	return queryCreateClient(ctx, s.tx, c)
}

func (s *txStore) GetClient(ctx context.Context, id string) (*model.Client, error) {
	return queryGetClient(ctx, s.tx, id)
}

func (s *txStore) GetClientBySlug(ctx context.Context, slug string) (*model.Client, error) {
	return queryGetClientBySlug(ctx, s.tx, slug)
}

func (s *txStore) ListClients(ctx context.Context, search string, limit, offset int) ([]*model.Client, int, error) {
	return queryListClients(ctx, s.tx, search, limit, offset)
}

func (s *txStore) UpdateClient(ctx context.Context, c *model.Client) error {
	return queryUpdateClient(ctx, s.tx, c)
}

func (s *txStore) DeleteClient(ctx context.Context, id string) error {
	return queryDeleteClient(ctx, s.tx, id)
}

func (s *txStore) CreateBrief(ctx context.Context, b *model.Brief) error {
	return queryCreateBrief(ctx, s.tx, b)
}

func (s *txStore) GetBrief(ctx context.Context, id string) (*model.Brief, error) {
	return queryGetBrief(ctx, s.tx, id)
}

func (s *txStore) ListBriefs(ctx context.Context, filter model.BriefFilter) ([]*model.Brief, int, error) {
	return queryListBriefs(ctx, s.tx, filter)
}

func (s *txStore) UpdateBrief(ctx context.Context, b *model.Brief) error {
	return queryUpdateBrief(ctx, s.tx, b)
}

func (s *txStore) DeleteBrief(ctx context.Context, id string) error {
	return queryDeleteBrief(ctx, s.tx, id)
}

func (s *txStore) CreateMotivations(ctx context.Context, ms []*model.Motivation) error {
	return queryCreateMotivations(ctx, s.tx, ms)
}

func (s *txStore) GetMotivation(ctx context.Context, id string) (*model.Motivation, error) {
	return queryGetMotivation(ctx, s.tx, id)
}

func (s *txStore) ListMotivations(ctx context.Context, filter model.MotivationFilter) ([]*model.Motivation, error) {
	return queryListMotivations(ctx, s.tx, filter)
}

func (s *txStore) SetMotivationSelected(ctx context.Context, id string, selected bool) error {
	return querySetMotivationSelected(ctx, s.tx, id, selected)
}

func (s *txStore) CreateCopyVariants(ctx context.Context, cs []*model.CopyVariant) error {
	return queryCreateCopyVariants(ctx, s.tx, cs)
}

func (s *txStore) GetCopyVariant(ctx context.Context, id string) (*model.CopyVariant, error) {
	return queryGetCopyVariant(ctx, s.tx, id)
}

func (s *txStore) ListCopyVariants(ctx context.Context, filter model.CopyFilter) ([]*model.CopyVariant, error) {
	return queryListCopyVariants(ctx, s.tx, filter)
}

func (s *txStore) SetCopyVariantSelected(ctx context.Context, id string, selected bool) error {
	return querySetCopyVariantSelected(ctx, s.tx, id, selected)
}

func (s *txStore) CreateAsset(ctx context.Context, a *model.Asset) error {
	return queryCreateAsset(ctx, s.tx, a)
}

func (s *txStore) GetAsset(ctx context.Context, id string) (*model.Asset, error) {
	return queryGetAsset(ctx, s.tx, id)
}

func (s *txStore) ListAssets(ctx context.Context, filter model.AssetFilter) ([]*model.Asset, int, error) {
	return queryListAssets(ctx, s.tx, filter)
}

func (s *txStore) DeleteAsset(ctx context.Context, id string) error {
	return queryDeleteAsset(ctx, s.tx, id)
}

func (s *txStore) CreateMatrix(ctx context.Context, m *model.Matrix) error {
	return queryCreateMatrix(ctx, s.tx, m)
}

func (s *txStore) GetMatrix(ctx context.Context, id string) (*model.Matrix, error) {
	return queryGetMatrix(ctx, s.tx, id)
}

func (s *txStore) ListMatrices(ctx context.Context, clientID string, limit, offset int) ([]*model.Matrix, int, error) {
	return queryListMatrices(ctx, s.tx, clientID, limit, offset)
}

func (s *txStore) DeleteMatrix(ctx context.Context, id string) error {
	return queryDeleteMatrix(ctx, s.tx, id)
}

func (s *txStore) CreateExecutions(ctx context.Context, es []*model.Execution) error {
	return queryCreateExecutions(ctx, s.tx, es)
}

func (s *txStore) GetExecution(ctx context.Context, id string) (*model.Execution, error) {
	return queryGetExecution(ctx, s.tx, id)
}

func (s *txStore) ListExecutions(ctx context.Context, filter model.ExecutionFilter) ([]*model.Execution, int, error) {
	return queryListExecutions(ctx, s.tx, filter)
}

func (s *txStore) QueueExecution(ctx context.Context, id string) (*model.Execution, error) {
	return queryQueueExecution(ctx, s.tx, id)
}

func (s *txStore) ClaimExecution(ctx context.Context, id string) (*model.Execution, error) {
	return queryClaimExecution(ctx, s.tx, id)
}

func (s *txStore) CompleteExecution(ctx context.Context, id, renderJobID, outputURL string) (*model.Execution, error) {
	return queryCompleteExecution(ctx, s.tx, id, renderJobID, outputURL)
}

func (s *txStore) FailExecution(ctx context.Context, id, renderJobID, message string) (*model.Execution, error) {
	return queryFailExecution(ctx, s.tx, id, renderJobID, message)
}

func (s *txStore) SetExecutionMetadata(ctx context.Context, id string, metadata []byte) error {
	return querySetExecutionMetadata(ctx, s.tx, id, metadata)
}

func (s *txStore) ExecutionStats(ctx context.Context) (*model.ExecutionStats, error) {
	return queryExecutionStats(ctx, s.tx)
}

func (s *txStore) RecordUsage(ctx context.Context, u *model.UsageRecord) error {
	return queryRecordUsage(ctx, s.tx, u)
}

func (s *txStore) SumMonthlyCost(ctx context.Context, service string, month time.Time) (float64, error) {
	return querySumMonthlyCost(ctx, s.tx, service, month)
}

func (s *txStore) RecordEvent(ctx context.Context, e *model.Event) error {
	return queryRecordEvent(ctx, s.tx, e)
}

func (s *txStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.tx, entityID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
