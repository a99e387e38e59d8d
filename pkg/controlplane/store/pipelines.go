package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/observix/observix/pkg/wire"
)

// CreatePipeline inserts a new pipeline at version 1.
func (s *Store) CreatePipeline(ctx context.Context, name string, enabled bool, spec wire.PipelineSpec) (wire.Pipeline, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return wire.Pipeline{}, fmt.Errorf("marshal spec: %w", err)
	}

	p := wire.Pipeline{
		PipelineID: uuid.NewString(),
		Name:       name,
		Enabled:    enabled,
		Spec:       spec,
		Version:    1,
		UpdatedAt:  time.Now().UTC(),
	}

	_, err = s.client.DB().ExecContext(ctx,
		`INSERT INTO pipelines (pipeline_id, name, enabled, spec_json, version, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.PipelineID, p.Name, p.Enabled, string(specJSON), p.Version, p.UpdatedAt,
	)
	if err != nil {
		return wire.Pipeline{}, fmt.Errorf("insert pipeline: %w", err)
	}
	return p, nil
}

// GetPipeline fetches one pipeline by id.
func (s *Store) GetPipeline(ctx context.Context, id string) (wire.Pipeline, error) {
	row := s.client.DB().QueryRowContext(ctx,
		`SELECT pipeline_id, name, enabled, spec_json, version, updated_at FROM pipelines WHERE pipeline_id = ?`, id)
	return scanPipeline(row)
}

// ListPipelines returns all pipelines ordered by pipeline_id for stable output.
func (s *Store) ListPipelines(ctx context.Context) ([]wire.Pipeline, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT pipeline_id, name, enabled, spec_json, version, updated_at FROM pipelines ORDER BY pipeline_id`)
	if err != nil {
		return nil, fmt.Errorf("query pipelines: %w", err)
	}
	defer rows.Close()

	var out []wire.Pipeline
	for rows.Next() {
		p, err := scanPipeline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PipelineUpdate carries the optional fields PUT /v1/pipelines/{id} may change.
type PipelineUpdate struct {
	Name    *string
	Enabled *bool
	Spec    *wire.PipelineSpec
}

// UpdatePipeline applies a partial update. A byte-identical update (same
// name, enabled, and spec JSON) does not bump version.
func (s *Store) UpdatePipeline(ctx context.Context, id string, upd PipelineUpdate) (wire.Pipeline, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.GetPipeline(ctx, id)
	if err != nil {
		return wire.Pipeline{}, err
	}

	next := current
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Enabled != nil {
		next.Enabled = *upd.Enabled
	}
	if upd.Spec != nil {
		next.Spec = *upd.Spec
	}

	currentJSON, err := json.Marshal(current.Spec)
	if err != nil {
		return wire.Pipeline{}, fmt.Errorf("marshal current spec: %w", err)
	}
	nextJSON, err := json.Marshal(next.Spec)
	if err != nil {
		return wire.Pipeline{}, fmt.Errorf("marshal next spec: %w", err)
	}

	unchanged := next.Name == current.Name &&
		next.Enabled == current.Enabled &&
		bytes.Equal(currentJSON, nextJSON)
	if unchanged {
		return current, nil
	}

	next.Version = current.Version + 1
	next.UpdatedAt = time.Now().UTC()

	res, err := s.client.DB().ExecContext(ctx,
		`UPDATE pipelines SET name = ?, enabled = ?, spec_json = ?, version = ?, updated_at = ? WHERE pipeline_id = ?`,
		next.Name, next.Enabled, string(nextJSON), next.Version, next.UpdatedAt, id,
	)
	if err != nil {
		return wire.Pipeline{}, fmt.Errorf("update pipeline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wire.Pipeline{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return wire.Pipeline{}, ErrNotFound
	}
	return next, nil
}

// DeletePipeline removes a pipeline. Assignments referencing it are removed
// by the ON DELETE CASCADE foreign key.
func (s *Store) DeletePipeline(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.client.DB().ExecContext(ctx, `DELETE FROM pipelines WHERE pipeline_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pipeline: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func jsonUnmarshalSpec(data string, spec *wire.PipelineSpec) error {
	if err := json.Unmarshal([]byte(data), spec); err != nil {
		return fmt.Errorf("unmarshal spec: %w", err)
	}
	return nil
}

func scanPipeline(row rowScanner) (wire.Pipeline, error) {
	var p wire.Pipeline
	var specJSON string
	if err := row.Scan(&p.PipelineID, &p.Name, &p.Enabled, &specJSON, &p.Version, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wire.Pipeline{}, ErrNotFound
		}
		return wire.Pipeline{}, fmt.Errorf("scan pipeline: %w", err)
	}
	if err := jsonUnmarshalSpec(specJSON, &p.Spec); err != nil {
		return wire.Pipeline{}, err
	}
	return p, nil
}
