// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/toeirei/fleetmaster/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

// VehicleStore is the persistence contract of the reference server.
type VehicleStore interface {
	List(ctx context.Context) ([]model.Vehicle, error)
	Get(ctx context.Context, id int) (model.Vehicle, error)
	Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error)
	Update(ctx context.Context, id int, v model.Vehicle) (model.Vehicle, error)
	Delete(ctx context.Context, id int) error
	Ping(ctx context.Context) error
	Close() error
}

// scalarColumn stores a scalar as its JSON literal so the kind survives a
// round trip. Null scalars are stored as SQL NULL.
type scalarColumn struct {
	model.Scalar
}

func (c scalarColumn) Value() (driver.Value, error) {
	if c.IsNull() {
		return nil, nil
	}
	b, err := json.Marshal(c.Scalar)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *scalarColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		c.Scalar = model.Scalar{}
		return nil
	case string:
		return c.decode([]byte(v))
	case []byte:
		return c.decode(v)
	default:
		return fmt.Errorf("db: cannot scan %T into a scalar column", src)
	}
}

func (c *scalarColumn) decode(b []byte) error {
	if err := json.Unmarshal(b, &c.Scalar); err != nil {
		// Rows written by hand hold plain text.
		c.Scalar = model.ParseScalar(string(b))
	}
	return nil
}

type vehicleRow struct {
	bun.BaseModel `bun:"table:vehicles"`

	ID        int          `bun:"id,pk,autoincrement"`
	Year      scalarColumn `bun:"year"`
	Make      scalarColumn `bun:"make"`
	Model     scalarColumn `bun:"model"`
	CreatedAt time.Time    `bun:"created_at,notnull"`
	UpdatedAt time.Time    `bun:"updated_at,notnull"`
}

func toRow(v model.Vehicle) vehicleRow {
	return vehicleRow{
		ID:    v.ID,
		Year:  scalarColumn{v.Year},
		Make:  scalarColumn{v.Make},
		Model: scalarColumn{v.Model},
	}
}

func (r vehicleRow) toModel() model.Vehicle {
	created, updated := r.CreatedAt.UTC(), r.UpdatedAt.UTC()
	return model.Vehicle{
		ID:        r.ID,
		Year:      r.Year.Scalar,
		Make:      r.Make.Scalar,
		Model:     r.Model.Scalar,
		CreatedAt: model.At(created),
		UpdatedAt: model.At(updated),
	}
}

// BunStore implements VehicleStore for every supported dialect.
type BunStore struct {
	bun    *bun.DB
	dbType string
	now    func() time.Time
}

// Type returns the database type the store was opened with.
func (s *BunStore) Type() string { return s.dbType }

func (s *BunStore) stamp() time.Time {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().UTC().Truncate(time.Microsecond)
}

func (s *BunStore) List(ctx context.Context) ([]model.Vehicle, error) {
	var rows []vehicleRow
	if err := s.bun.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.Vehicle, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *BunStore) Get(ctx context.Context, id int) (model.Vehicle, error) {
	var row vehicleRow
	if err := s.bun.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return model.Vehicle{}, MapDBError(err)
	}
	return row.toModel(), nil
}

// Create inserts v as a new record, ignoring any id it carries.
func (s *BunStore) Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	row := toRow(v)
	row.ID = 0
	row.CreatedAt = s.stamp()
	row.UpdatedAt = row.CreatedAt

	q := s.bun.NewInsert().Model(&row)
	if s.bun.Dialect().Features().Has(feature.InsertReturning) {
		q = q.Returning("id")
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return model.Vehicle{}, MapDBError(err)
	}
	if row.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return model.Vehicle{}, fmt.Errorf("read inserted id: %w", err)
		}
		row.ID = int(id)
	}
	dbLogf("db: created vehicle %d", row.ID)
	return row.toModel(), nil
}

// Update replaces year, make and model of vehicle id and stamps updated_at.
func (s *BunStore) Update(ctx context.Context, id int, v model.Vehicle) (model.Vehicle, error) {
	row := toRow(v)
	row.ID = id
	row.UpdatedAt = s.stamp()

	res, err := s.bun.NewUpdate().Model(&row).
		Column("year", "make", "model", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return model.Vehicle{}, MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Vehicle{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *BunStore) Delete(ctx context.Context, id int) error {
	res, err := s.bun.NewDelete().Model((*vehicleRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	dbLogf("db: deleted vehicle %d", id)
	return nil
}

func (s *BunStore) Ping(ctx context.Context) error {
	return s.bun.PingContext(ctx)
}

func (s *BunStore) Close() error {
	return s.bun.Close()
}

var _ VehicleStore = (*BunStore)(nil)
