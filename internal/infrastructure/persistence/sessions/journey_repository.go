// Package sessions provides the SQL-backed implementation of the journey
// store contract. It stands in for the production session store in
// standalone/dev mode so the engine runs against a local sqlite file or a
// remote libsql database.
package sessions

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/AtRiskMedia/crosstrace-go/internal/domain/sessions"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/crosstrace-go/pkg/config"
)

// Interface assertion against the domain contract.
var _ domain.JourneyStore = (*SQLJourneyStore)(nil)

// SQLJourneyStore is the SQL-based implementation of the JourneyStore.
type SQLJourneyStore struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLJourneyStore creates a new instance of the store.
func NewSQLJourneyStore(db *database.DB, logger *logging.ChanneledLogger) *SQLJourneyStore {
	return &SQLJourneyStore{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the sessions table when it does not exist yet.
func (r *SQLJourneyStore) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			fingerprint_id TEXT NOT NULL,
			start_time TEXT NOT NULL,
			duration_secs REAL,
			device_type TEXT NOT NULL,
			device_os TEXT NOT NULL,
			device_browser TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			risk_score REAL NOT NULL DEFAULT 0,
			is_bot INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_fingerprint ON sessions(fingerprint_id, start_time);`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Failed to ensure sessions schema", "error", err.Error())
		return err
	}
	r.logger.Database().Info("Sessions schema ensured", "duration", time.Since(start))
	return nil
}

// FindByFingerprintID retrieves the ordered journey for a fingerprint.
// Returns (nil, nil) when no sessions exist for the fingerprint.
func (r *SQLJourneyStore) FindByFingerprintID(ctx context.Context, fingerprintID string) (*domain.UserJourney, error) {
	const query = `
		SELECT id, fingerprint_id, start_time, duration_secs,
		       device_type, device_os, device_browser,
		       country, region, city, risk_score, is_bot
		FROM sessions
		WHERE fingerprint_id = ?
		ORDER BY start_time`

	start := time.Now()
	r.logger.Database().Debug("Loading journey by fingerprint", "fingerprintId", fingerprintID)

	rows, err := r.db.QueryContext(ctx, query, fingerprintID)
	if err != nil {
		r.logger.Database().Error("Failed to load journey", "error", err.Error(), "fingerprintId", fingerprintID)
		return nil, err
	}
	defer rows.Close()

	var records []domain.SessionRecord
	for rows.Next() {
		record, err := r.scanSession(rows)
		if err != nil {
			r.logger.Database().Error("Failed to scan session row", "error", err.Error(), "fingerprintId", fingerprintID)
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}

	if len(records) == 0 {
		r.logger.Database().Debug("Journey not found", "fingerprintId", fingerprintID, "duration", duration)
		return nil, nil
	}

	r.logger.Database().Info("Journey loaded", "fingerprintId", fingerprintID, "sessions", len(records), "duration", duration)
	return domain.NewUserJourney(fingerprintID, records), nil
}

// Upsert inserts or replaces one session record and returns the recomputed
// journey for its fingerprint.
func (r *SQLJourneyStore) Upsert(ctx context.Context, session domain.SessionRecord) (*domain.UserJourney, error) {
	const query = `
		INSERT OR REPLACE INTO sessions
			(id, fingerprint_id, start_time, duration_secs,
			 device_type, device_os, device_browser,
			 country, region, city, risk_score, is_bot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing session upsert", "sessionId", session.ID, "fingerprintId", session.FingerprintID)

	var durationSecs sql.NullFloat64
	if session.Duration != nil {
		durationSecs = sql.NullFloat64{Float64: session.Duration.Seconds(), Valid: true}
	}

	isBot := 0
	if session.IsBot {
		isBot = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.FingerprintID,
		session.StartTime.UTC().Format(time.RFC3339Nano),
		durationSecs,
		string(session.Device.Type),
		session.Device.OS,
		session.Device.Browser,
		session.Location.Country,
		session.Location.Region,
		session.Location.City,
		session.RiskScore,
		isBot,
	)
	if err != nil {
		r.logger.Database().Error("Session upsert failed", "error", err.Error(), "sessionId", session.ID, "fingerprintId", session.FingerprintID)
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Session upsert completed", "sessionId", session.ID, "fingerprintId", session.FingerprintID, "duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}

	return r.FindByFingerprintID(ctx, session.FingerprintID)
}

// ListFingerprints returns every fingerprint with at least one session.
func (r *SQLJourneyStore) ListFingerprints(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT fingerprint_id FROM sessions`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Failed to list fingerprints", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var fingerprints []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		fingerprints = append(fingerprints, id)
	}
	return fingerprints, rows.Err()
}

// scanSession is a helper to scan one sessions row into a SessionRecord.
func (r *SQLJourneyStore) scanSession(rows *sql.Rows) (domain.SessionRecord, error) {
	var record domain.SessionRecord
	var startTimeStr string
	var durationSecs sql.NullFloat64
	var deviceType string
	var isBot int

	err := rows.Scan(
		&record.ID,
		&record.FingerprintID,
		&startTimeStr,
		&durationSecs,
		&deviceType,
		&record.Device.OS,
		&record.Device.Browser,
		&record.Location.Country,
		&record.Location.Region,
		&record.Location.City,
		&record.RiskScore,
		&isBot,
	)
	if err != nil {
		return record, err
	}

	record.StartTime, err = time.Parse(time.RFC3339Nano, startTimeStr)
	if err != nil {
		// Try alternative timestamp format if RFC3339 fails
		record.StartTime, err = time.Parse("2006-01-02 15:04:05", startTimeStr)
		if err != nil {
			return record, err
		}
	}

	if durationSecs.Valid {
		d := time.Duration(durationSecs.Float64 * float64(time.Second))
		record.Duration = &d
	}
	record.Device.Type = domain.DeviceType(deviceType)
	record.IsBot = isBot != 0

	return record, nil
}
