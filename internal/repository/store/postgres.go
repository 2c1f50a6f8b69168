// Package store implements the PoiStore domain interface against the
// downstream SQL table (C8, §4.7), adapted from the teacher's postgres
// connection bootstrap (pool sizing, ping-on-connect, structured logging).
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/domain"
	domainrepo "github.com/location-microservice/internal/domain/repository"
	"github.com/location-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

type Store struct {
	db     *sqlx.DB
	table  string
	logger *zap.Logger
}

var _ domainrepo.PoiStore = (*Store)(nil)

// New opens the downstream store connection and verifies it with a ping,
// mirroring the teacher's postgres.New bootstrap.
func New(cfg *config.StoreConfig, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	logger.Info("store connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("table", cfg.Table),
	)

	return &Store{db: db, table: cfg.Table, logger: logger}, nil
}

func (s *Store) Close() error {
	s.logger.Info("closing store connection")
	return s.db.Close()
}

func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DeleteAndInsert is the delete-then-insert upsert (§4.7, §9): not
// transactional by design, so a crash between the two statements can drop
// a record; the rehydrator (C10) is the backstop for that window.
func (s *Store) DeleteAndInsert(ctx context.Context, record domain.PoiRecord) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE uid = $1", s.table)
	if _, err := s.db.ExecContext(ctx, deleteQuery, record.UID); err != nil {
		return errors.ErrStoreDelete.WithDetails(map[string]interface{}{"uid": record.UID, "error": err.Error()})
	}

	placeholders := make([]string, len(domain.Columns))
	args := make([]interface{}, len(domain.Columns))
	values := map[string]interface{}{
		"uid":       record.UID,
		"poi":       record.Poi,
		"name":      record.Name,
		"geohash":   record.Geohash,
		"province":  record.Province,
		"area":      record.Area,
		"district":  record.District,
		"tag":       record.Tag,
		"telephone": record.Telephone,
		"aoi":       nullableText(record.AOI),
		"attribute": record.Attribute,
	}
	for i, col := range domain.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[col]
	}
	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(domain.Columns, ", "), strings.Join(placeholders, ", "),
	)
	if _, err := s.db.ExecContext(ctx, insertQuery, args...); err != nil {
		return errors.ErrStoreInsert.WithDetails(map[string]interface{}{"uid": record.UID, "error": err.Error()})
	}
	return nil
}

func nullableText(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

// AllUIDs streams every uid in the table, paged by a keyset cursor on uid,
// for the rehydrator (C10).
func (s *Store) AllUIDs(ctx context.Context, pageSize int, fn func(uids []string) error) error {
	if pageSize <= 0 {
		pageSize = 1000
	}
	query := fmt.Sprintf("SELECT uid FROM %s WHERE uid > $1 ORDER BY uid ASC LIMIT $2", s.table)

	cursor := ""
	for {
		var page []string
		if err := s.db.SelectContext(ctx, &page, query, cursor, pageSize); err != nil {
			return fmt.Errorf("select uids page: %w", err)
		}
		if len(page) == 0 {
			return nil
		}
		if err := fn(page); err != nil {
			return err
		}
		cursor = page[len(page)-1]
		if len(page) < pageSize {
			return nil
		}
	}
}
