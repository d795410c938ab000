package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"resume-match-engine/internal/analysis/record"
	apperrors "resume-match-engine/internal/common/errors"
	"resume-match-engine/internal/common/logger"
)

// AnalysisStore writes analysis records to Postgres. The full record goes
// into a JSONB column; the columns queried by reporting are lifted out.
type AnalysisStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewAnalysisStore(db *sql.DB, log logger.Logger) *AnalysisStore {
	return &AnalysisStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "analysis-store"}),
	}
}

func (s *AnalysisStore) Name() string { return "postgres" }

// Save inserts one analysis record.
func (s *AnalysisStore) Save(ctx context.Context, rec *record.AnalysisRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Errorf("marshal record: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_records (
			id, resume_filename, job_description_filename,
			overall_score, match_level, decision, degraded,
			record, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID,
		rec.ResumeFilename,
		rec.JobDescriptionFilename,
		rec.OverallScore,
		rec.MatchLevel,
		rec.HiringRecommendation.Decision,
		rec.Degraded,
		recordJSON,
		rec.Timestamp,
	)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Errorf("insert analysis record: %w", err))
	}

	s.logger.Debug("analysis record stored", map[string]interface{}{
		"recordId": rec.ID,
	})
	return nil
}

// History returns the most recent analyses, newest first.
func (s *AnalysisStore) History(ctx context.Context, limit int) ([]*record.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM analysis_records
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Errorf("query history: %w", err))
	}
	defer rows.Close()

	var records []*record.AnalysisRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, apperrors.NewPersistenceError(fmt.Errorf("scan history row: %w", err))
		}
		var rec record.AnalysisRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, apperrors.NewPersistenceError(fmt.Errorf("decode history row: %w", err))
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
