package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/observix/observix/pkg/wire"
)

// CreateAssignment binds pipelineID to (agentID, region). 404s via
// ErrPipelineUnknown if the pipeline doesn't exist, 409s via
// ErrAlreadyExists on a duplicate (agent_id, region, pipeline_id) triple.
func (s *Store) CreateAssignment(ctx context.Context, agentID, region, pipelineID string) (wire.Assignment, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.GetPipeline(ctx, pipelineID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return wire.Assignment{}, ErrPipelineUnknown
		}
		return wire.Assignment{}, err
	}

	a := wire.Assignment{
		AssignmentID: uuid.NewString(),
		AgentID:      agentID,
		Region:       region,
		PipelineID:   pipelineID,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.client.DB().ExecContext(ctx,
		`INSERT INTO assignments (assignment_id, agent_id, region, pipeline_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.AssignmentID, a.AgentID, a.Region, a.PipelineID, a.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return wire.Assignment{}, ErrAlreadyExists
		}
		return wire.Assignment{}, fmt.Errorf("insert assignment: %w", err)
	}
	return a, nil
}

// DeleteAssignment removes one assignment by id.
func (s *Store) DeleteAssignment(ctx context.Context, assignmentID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.client.DB().ExecContext(ctx, `DELETE FROM assignments WHERE assignment_id = ?`, assignmentID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PipelineRefsForAgent returns the (pipeline_id, version, enabled, spec)
// tuples currently assigned to (agentID, region), used to compute the
// revision and build the AssignmentView.
func (s *Store) PipelineRefsForAgent(ctx context.Context, agentID, region string) ([]wire.PipelineRef, error) {
	rows, err := s.client.DB().QueryContext(ctx, `
		SELECT p.pipeline_id, p.version, p.enabled, p.spec_json
		FROM assignments a
		JOIN pipelines p ON p.pipeline_id = a.pipeline_id
		WHERE a.agent_id = ? AND a.region = ?
		ORDER BY p.pipeline_id`, agentID, region)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var refs []wire.PipelineRef
	for rows.Next() {
		var ref wire.PipelineRef
		var specJSON string
		if err := rows.Scan(&ref.PipelineID, &ref.Version, &ref.Enabled, &specJSON); err != nil {
			return nil, fmt.Errorf("scan pipeline ref: %w", err)
		}
		if err := jsonUnmarshalSpec(specJSON, &ref.Spec); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
