package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	sharedpg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

//go:embed migrations/init.sql
var schema string

type Querier = sharedpg.Querier

// FieldCipher encrypts patient PII columns.
type FieldCipher interface {
	Encrypt(plaintext string) ([]byte, error)
	Decrypt(ciphertext []byte) (string, error)
	Hash(value string) []byte
}

type Storage struct {
	db     *sql.DB
	cipher FieldCipher
}

const queryTimeout = 5 * time.Second

func New(cfg *config.Config, cipher FieldCipher) (*Storage, error) {
	logger.Log.Info("connecting to postgres", "host", cfg.Private.Pg.Host, "db", cfg.Private.Pg.Dbname)
	db, err := sharedpg.Connect(cfg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	s := NewWithDB(db, cipher)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Log.Info("successfully connected to postgres")
	return s, nil
}

// NewWithDB wraps an already opened pool.
func NewWithDB(db *sql.DB, cipher FieldCipher) *Storage {
	return &Storage{db: db, cipher: cipher}
}

// Migrate applies the idempotent schema.
func (s *Storage) Migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return sharedpg.WithTx(ctx, s.db, fn)
}

// inTx runs fn in a transaction bounded by queryTimeout.
func (s *Storage) inTx(fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return s.withTx(ctx, fn)
}

type scanner interface {
	Scan(dest ...any) error
}

// filter accumulates WHERE clauses. Each clause carries one %d verb that is
// replaced by the positional parameter index.
type filter struct {
	clauses []string
	args    []any
}

func (f *filter) add(clause string, arg any) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, fmt.Sprintf(clause, len(f.args)))
}

func (f *filter) where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

// page appends LIMIT/OFFSET parameters and returns the clause.
func (f *filter) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, f.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(f.args)+1, len(f.args)+2), args
}

func (s *Storage) count(q Querier, table string, f *filter) (int, error) {
	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM "+table+f.where(), f.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return total, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
