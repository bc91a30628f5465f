package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/feedback-dashboard/internal/feedback"
)

var (
	// ErrNoAnalysis is returned when no dataset has been analyzed yet.
	ErrNoAnalysis = errors.New("no current analysis")
	// ErrStorageFailure wraps every database error.
	ErrStorageFailure = errors.New("storage failure")
)

const schema = `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		run_id TEXT NOT NULL,
		digest TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		positive INTEGER NOT NULL,
		negative INTEGER NOT NULL,
		neutral INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS feedback_entries (
		row_index INTEGER NOT NULL,
		category_index INTEGER NOT NULL,
		category TEXT NOT NULL,
		rating REAL,
		feedback TEXT,
		sentiment TEXT NOT NULL,
		PRIMARY KEY (row_index, category_index)
	);
	CREATE TABLE IF NOT EXISTS respondents (
		row_index INTEGER PRIMARY KEY,
		satisfaction TEXT
	);
	CREATE TABLE IF NOT EXISTS category_summaries (
		category_index INTEGER PRIMARY KEY,
		category TEXT NOT NULL,
		average_rating REAL,
		positive_pct REAL NOT NULL
	);
`

// AnalysisRepository keeps the current analysis of the session. Saving a new
// analysis replaces the previous one entirely.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Migrate creates the tables if they do not exist.
func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrStorageFailure, err)
	}
	return nil
}

// SaveCurrent replaces the stored analysis with a in a single transaction.
func (r *AnalysisRepository) SaveCurrent(ctx context.Context, a *feedback.Analysis) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStorageFailure, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"analyses", "feedback_entries", "respondents", "category_summaries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("%w: clear %s: %v", ErrStorageFailure, table, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analyses (id, run_id, digest, record_count, positive, negative, neutral, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
	`, a.RunID, a.Digest, len(a.Records),
		a.Distribution.Positive, a.Distribution.Negative, a.Distribution.Neutral,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: insert analysis: %v", ErrStorageFailure, err)
	}

	if err := insertRecords(ctx, tx, a.Records); err != nil {
		return err
	}
	if err := insertSummaries(ctx, tx, a.Summary); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStorageFailure, err)
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []feedback.AugmentedRecord) error {
	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO feedback_entries (row_index, category_index, category, rating, feedback, sentiment)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare entries: %v", ErrStorageFailure, err)
	}
	defer entryStmt.Close()

	respondentStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO respondents (row_index, satisfaction) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare respondents: %v", ErrStorageFailure, err)
	}
	defer respondentStmt.Close()

	for i, rec := range records {
		for ci, e := range rec.Entries {
			_, err := entryStmt.ExecContext(ctx, i, ci, string(feedback.Categories[ci]),
				nullFloat(e.Rating), nullString(e.Feedback), string(rec.Sentiments[ci]))
			if err != nil {
				return fmt.Errorf("%w: insert entry %d/%d: %v", ErrStorageFailure, i, ci, err)
			}
		}

		satisfaction := sql.NullString{String: string(rec.Satisfaction), Valid: rec.Satisfaction != feedback.SatisfactionUndefined}
		if _, err := respondentStmt.ExecContext(ctx, i, satisfaction); err != nil {
			return fmt.Errorf("%w: insert respondent %d: %v", ErrStorageFailure, i, err)
		}
	}
	return nil
}

func insertSummaries(ctx context.Context, tx *sql.Tx, summary []feedback.CategorySummary) error {
	for _, s := range summary {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO category_summaries (category_index, category, average_rating, positive_pct)
			VALUES (?, ?, ?, ?)
		`, s.Category.Index(), string(s.Category), nullFloat(s.AverageRating), s.PositiveFeedbackPct)
		if err != nil {
			return fmt.Errorf("%w: insert summary %s: %v", ErrStorageFailure, s.Category, err)
		}
	}
	return nil
}

// LoadCurrent rebuilds the stored analysis.
func (r *AnalysisRepository) LoadCurrent(ctx context.Context) (*feedback.Analysis, error) {
	var (
		a     feedback.Analysis
		count int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT run_id, digest, record_count, positive, negative, neutral
		FROM analyses WHERE id = 1
	`).Scan(&a.RunID, &a.Digest, &count,
		&a.Distribution.Positive, &a.Distribution.Negative, &a.Distribution.Neutral)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAnalysis
		}
		return nil, fmt.Errorf("%w: query analysis: %v", ErrStorageFailure, err)
	}

	a.Records = make([]feedback.AugmentedRecord, count)
	if err := r.loadRespondents(ctx, a.Records); err != nil {
		return nil, err
	}
	if err := r.loadEntries(ctx, a.Records); err != nil {
		return nil, err
	}
	if a.Summary, err = r.loadSummaries(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisRepository) loadRespondents(ctx context.Context, records []feedback.AugmentedRecord) error {
	rows, err := r.db.QueryContext(ctx, `SELECT row_index, satisfaction FROM respondents`)
	if err != nil {
		return fmt.Errorf("%w: query respondents: %v", ErrStorageFailure, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx          int
			satisfaction sql.NullString
		)
		if err := rows.Scan(&idx, &satisfaction); err != nil {
			return fmt.Errorf("%w: scan respondent: %v", ErrStorageFailure, err)
		}
		if idx < 0 || idx >= len(records) {
			return fmt.Errorf("%w: respondent %d out of range", ErrStorageFailure, idx)
		}
		if satisfaction.Valid {
			records[idx].Satisfaction = feedback.SatisfactionLevel(satisfaction.String)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate respondents: %v", ErrStorageFailure, err)
	}
	return nil
}

func (r *AnalysisRepository) loadEntries(ctx context.Context, records []feedback.AugmentedRecord) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT row_index, category_index, rating, feedback, sentiment
		FROM feedback_entries
	`)
	if err != nil {
		return fmt.Errorf("%w: query entries: %v", ErrStorageFailure, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx, ci   int
			rating    sql.NullFloat64
			text      sql.NullString
			sentiment string
		)
		if err := rows.Scan(&idx, &ci, &rating, &text, &sentiment); err != nil {
			return fmt.Errorf("%w: scan entry: %v", ErrStorageFailure, err)
		}
		if idx < 0 || idx >= len(records) || ci < 0 || ci >= feedback.CategoryCount {
			return fmt.Errorf("%w: entry %d/%d out of range", ErrStorageFailure, idx, ci)
		}
		records[idx].Entries[ci] = feedback.Entry{
			Rating:   feedback.NullFloat{Float64: rating.Float64, Valid: rating.Valid},
			Feedback: feedback.NullString{String: text.String, Valid: text.Valid},
		}
		records[idx].Sentiments[ci] = feedback.Label(sentiment)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate entries: %v", ErrStorageFailure, err)
	}
	return nil
}

func (r *AnalysisRepository) loadSummaries(ctx context.Context) ([]feedback.CategorySummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, average_rating, positive_pct
		FROM category_summaries
		ORDER BY category_index
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: query summaries: %v", ErrStorageFailure, err)
	}
	defer rows.Close()

	var out []feedback.CategorySummary
	for rows.Next() {
		var (
			s        feedback.CategorySummary
			category string
			avg      sql.NullFloat64
		)
		if err := rows.Scan(&category, &avg, &s.PositiveFeedbackPct); err != nil {
			return nil, fmt.Errorf("%w: scan summary: %v", ErrStorageFailure, err)
		}
		s.Category = feedback.Category(category)
		s.AverageRating = feedback.NullFloat{Float64: avg.Float64, Valid: avg.Valid}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate summaries: %v", ErrStorageFailure, err)
	}
	return out, nil
}

func nullFloat(v feedback.NullFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Float64, Valid: v.Valid}
}

func nullString(v feedback.NullString) sql.NullString {
	return sql.NullString{String: v.String, Valid: v.Valid}
}
