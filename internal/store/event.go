package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMRequestEventData captures a single LLM API call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// DiscoveryEventData captures one completed discovery.
type DiscoveryEventData struct {
	ID            string
	UserID        string
	ObjectLabel   string
	CategoryHint  string
	SkillsAwarded int
	PointsAwarded int
}

// DiscoveryRecord is a stored discovery event.
type DiscoveryRecord struct {
	DiscoveryEventData
	Timestamp time.Time
}

// LLMUsageStats aggregates token usage per purpose and model.
type LLMUsageStats struct {
	Purpose      string
	Model        string
	Requests     int
	InputTokens  int
	OutputTokens int
	Failures     int
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendDiscovery records a completed discovery.
	AppendDiscovery(ctx context.Context, data DiscoveryEventData) error

	// RecentDiscoveries returns the user's most recent discoveries,
	// newest first, up to limit.
	RecentDiscoveries(ctx context.Context, userID string, limit int) ([]DiscoveryRecord, error)

	// LLMUsage aggregates LLM usage grouped by purpose.
	LLMUsage(ctx context.Context) ([]LLMUsageStats, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	success := 0
	if data.Success {
		success = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events
			(timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nowStamp(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append llm event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendDiscovery(ctx context.Context, data DiscoveryEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO discovery_events
			(id, timestamp, user_id, object_label, category_hint, skills_awarded, points_awarded)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.ID, nowStamp(), data.UserID, data.ObjectLabel, data.CategoryHint,
		data.SkillsAwarded, data.PointsAwarded,
	)
	if err != nil {
		return fmt.Errorf("append discovery event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentDiscoveries(ctx context.Context, userID string, limit int) ([]DiscoveryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, user_id, object_label, category_hint, skills_awarded, points_awarded
		 FROM discovery_events
		 WHERE user_id = ?
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query discovery events: %w", err)
	}
	defer rows.Close()

	var out []DiscoveryRecord
	for rows.Next() {
		var rec DiscoveryRecord
		var ts string
		if err := rows.Scan(&rec.ID, &ts, &rec.UserID, &rec.ObjectLabel,
			&rec.CategoryHint, &rec.SkillsAwarded, &rec.PointsAwarded); err != nil {
			return nil, fmt.Errorf("scan discovery event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsage(ctx context.Context) ([]LLMUsageStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purpose, model, COUNT(*), SUM(input_tokens), SUM(output_tokens), SUM(1 - success)
		 FROM llm_events
		 GROUP BY purpose, model
		 ORDER BY purpose, model`,
	)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var s LLMUsageStats
		if err := rows.Scan(&s.Purpose, &s.Model, &s.Requests, &s.InputTokens, &s.OutputTokens, &s.Failures); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
