// Package scoreboard stores finished games in a local SQLite database.
package scoreboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Result is one finished game.
type Result struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	PlayedAt   time.Time `json:"playedAt" gorm:"index"`
	Score      int       `json:"score" gorm:"index"`
	Segments   int       `json:"segments"`
	DurationMs int64     `json:"durationMs"`
	Mode       string    `json:"mode" gorm:"size:16"`
}

// TableName fixes the table name independent of the struct name.
func (*Result) TableName() string {
	return "results"
}

// Board records results and answers high score queries.
type Board interface {
	// Record stores a finished game. A zero PlayedAt is set to the current time.
	//
	// Parameters:
	//   - ctx: the context for the insert
	//   - r: the result to store
	//
	// Returns:
	//   - Result: the stored result with its ID
	//   - error: if the insert failed
	Record(ctx context.Context, r Result) (Result, error)

	// Top returns the n best results, highest score first. Ties go to the earlier game.
	//
	// Parameters:
	//   - ctx: the context for the query
	//   - n: the number of results, at least 1
	//
	// Returns:
	//   - []Result: up to n results
	//   - error: if the query failed or n is not positive
	Top(ctx context.Context, n int) ([]Result, error)

	// Best returns the highest score recorded, or 0 when the board is empty.
	//
	// Parameters:
	//   - ctx: the context for the query
	//
	// Returns:
	//   - int: the best score
	//   - error: if the query failed
	Best(ctx context.Context) (int, error)

	// Close closes the underlying database.
	//
	// Returns:
	//   - error: if closing failed
	Close() error
}

type board struct {
	db  *gorm.DB
	log zerolog.Logger
}

var _ Board = &board{}

// Open opens or creates the scoreboard database at path and migrates the schema.
// An empty path opens a private in-memory database.
//
// Parameters:
//   - path: the SQLite file path, or "" for memory
//   - log: the logger for open and record events
//
// Returns:
//   - Board: the opened scoreboard
//   - error: if the database could not be opened or migrated
func Open(path string, log zerolog.Logger) (Board, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open scoreboard %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access scoreboard connection: %w", err)
	}
	// every pooled connection to :memory: would be a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Result{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate scoreboard: %w", err)
	}

	log.Debug().Str("path", dsn).Msg("scoreboard opened")
	return &board{db: db, log: log}, nil
}

func (b *board) Record(ctx context.Context, r Result) (Result, error) {
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now().UTC()
	}
	r.ID = 0
	if err := b.db.WithContext(ctx).Create(&r).Error; err != nil {
		return Result{}, fmt.Errorf("failed to record result: %w", err)
	}
	b.log.Info().Uint("id", r.ID).Int("score", r.Score).Str("mode", r.Mode).Msg("result recorded")
	return r, nil
}

func (b *board) Top(ctx context.Context, n int) ([]Result, error) {
	if n <= 0 {
		return nil, errors.New("top needs a positive count")
	}
	var results []Result
	err := b.db.WithContext(ctx).
		Order("score DESC").
		Order("played_at ASC").
		Order("id ASC").
		Limit(n).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top results: %w", err)
	}
	return results, nil
}

func (b *board) Best(ctx context.Context) (int, error) {
	var best sql.NullInt64
	row := b.db.WithContext(ctx).Model(&Result{}).Select("MAX(score)").Row()
	if err := row.Scan(&best); err != nil {
		return 0, fmt.Errorf("failed to query best score: %w", err)
	}
	return int(best.Int64), nil
}

func (b *board) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access scoreboard connection: %w", err)
	}
	return sqlDB.Close()
}
