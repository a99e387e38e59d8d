package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/observix/observix/pkg/wire"
)

// UpsertAgentSeen records that agentID (in region) was just seen, creating
// the agent record on first contact. It is the narrow write the poll
// endpoint performs alongside its otherwise read-only work. A freshly-seen
// agent is immediately marked online so it doesn't read as offline until
// the next liveness sweep.
func (s *Store) UpsertAgentSeen(ctx context.Context, agentID, region string, now time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.client.DB().ExecContext(ctx,
		`UPDATE agents SET last_seen_at = ?, region = ?, status = ? WHERE agent_id = ?`,
		now, region, string(wire.AgentOnline), agentID)
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = s.client.DB().ExecContext(ctx,
		`INSERT INTO agents (agent_id, region, first_seen_at, last_seen_at, status) VALUES (?, ?, ?, ?, ?)`,
		agentID, region, now, now, string(wire.AgentOnline))
	if err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// ListAgents returns all known agents. Status is derived from
// last_seen_at at read time — online iff now - last_seen_at <= threshold —
// so a stale agent reads as offline the moment it crosses the threshold,
// regardless of when the liveness sweeper last ran.
func (s *Store) ListAgents(ctx context.Context, now time.Time, threshold time.Duration) ([]wire.Agent, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT agent_id, region, first_seen_at, last_seen_at, status FROM agents ORDER BY agent_id`)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	var out []wire.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		a.Status = statusAt(a.LastSeenAt, now, threshold)
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAgent fetches one agent by id with the stored status column as last
// recorded by UpsertAgentSeen or the liveness sweeper. API reads go
// through ListAgents, which derives status instead.
func (s *Store) GetAgent(ctx context.Context, agentID string) (wire.Agent, error) {
	row := s.client.DB().QueryRowContext(ctx,
		`SELECT agent_id, region, first_seen_at, last_seen_at, status FROM agents WHERE agent_id = ?`, agentID)
	return scanAgent(row)
}

func statusAt(lastSeen, now time.Time, threshold time.Duration) wire.AgentStatus {
	if now.Sub(lastSeen) > threshold {
		return wire.AgentOffline
	}
	return wire.AgentOnline
}

// SweepOfflineAgents marks every agent whose last_seen_at is older than
// threshold as offline, and every other agent as online. It returns the
// number of agents whose status actually flipped.
func (s *Store) SweepOfflineAgents(ctx context.Context, now time.Time, threshold time.Duration) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cutoff := now.Add(-threshold)

	res, err := s.client.DB().ExecContext(ctx,
		`UPDATE agents SET status = ? WHERE last_seen_at < ? AND status != ?`,
		string(wire.AgentOffline), cutoff, string(wire.AgentOffline))
	if err != nil {
		return 0, fmt.Errorf("sweep offline agents: %w", err)
	}
	offlineFlips, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	res, err = s.client.DB().ExecContext(ctx,
		`UPDATE agents SET status = ? WHERE last_seen_at >= ? AND status != ?`,
		string(wire.AgentOnline), cutoff, string(wire.AgentOnline))
	if err != nil {
		return 0, fmt.Errorf("sweep online agents: %w", err)
	}
	onlineFlips, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(offlineFlips + onlineFlips), nil
}

func scanAgent(row rowScanner) (wire.Agent, error) {
	var a wire.Agent
	var status string
	if err := row.Scan(&a.AgentID, &a.Region, &a.FirstSeenAt, &a.LastSeenAt, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wire.Agent{}, ErrNotFound
		}
		return wire.Agent{}, fmt.Errorf("scan agent: %w", err)
	}
	a.Status = wire.AgentStatus(status)
	return a, nil
}
