// Package sqlitestore keeps the high score in a local SQLite file via
// GORM.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"roadrush/internal/game"
)

// HighScore is one named score. Only game.HighScoreKey is used.
type HighScore struct {
	Name    string `gorm:"primaryKey;size:64"`
	ScoreMs int64  `gorm:"not null"`
}

func (HighScore) TableName() string { return "high_scores" }

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens or creates the database at path. An empty path uses an
// in-memory database.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	if path == "" {
		// Every pooled connection would get its own empty memory database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&HighScore{}); err != nil {
		return nil, fmt.Errorf("migrate high scores: %w", err)
	}

	if path == "" {
		log.Info().Msg("Using in-memory high score store")
	} else {
		log.Info().Str("path", path).Msg("Using local SQLite high score store")
	}
	return &Store{db: db, log: log}, nil
}

// HighScore returns the stored high score, or 0 if none was saved yet.
func (s *Store) HighScore(ctx context.Context) (int64, error) {
	var row HighScore
	err := s.db.WithContext(ctx).Where("name = ?", game.HighScoreKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", game.HighScoreKey, err)
	}
	return row.ScoreMs, nil
}

// SetHighScore overwrites the stored high score.
func (s *Store) SetHighScore(ctx context.Context, ms int64) error {
	row := HighScore{Name: game.HighScoreKey, ScoreMs: ms}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"score_ms"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", game.HighScoreKey, err)
	}
	s.log.Debug().Int64("score", ms).Msg("High score saved")
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("access sql interface: %w", err)
	}
	return sqlDB.Close()
}
