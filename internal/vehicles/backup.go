// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package vehicles

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/model"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Export writes vs as a JSON backup, zstd-compressed when compress is set.
func Export(w io.Writer, vs []model.Vehicle, compress bool) error {
	data := model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		ExportedAt:    time.Now().UTC(),
		Vehicles:      vs,
	}
	if data.Vehicles == nil {
		data.Vehicles = []model.Vehicle{}
	}

	if !compress {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode backup: %w", err)
		}
		return nil
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	return zw.Close()
}

// ReadBackup decodes a backup written by Export. Compression is detected
// from the zstd frame magic.
func ReadBackup(r io.Reader) (*model.BackupData, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var data model.BackupData
	if err := json.NewDecoder(src).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if data.SchemaVersion > model.BackupSchemaVersion {
		return nil, fmt.Errorf("backup schema version %d is newer than supported %d", data.SchemaVersion, model.BackupSchemaVersion)
	}
	return &data, nil
}

// Import re-creates every vehicle as a new record and reloads once at the
// end. It never navigates. The number of created records is returned with
// the joined errors of the failed ones.
func (c *Controller) Import(ctx context.Context, vs []model.Vehicle) (int, error) {
	created := 0
	var errs []error
	for _, v := range vs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.gw.Call(ctx, http.MethodPost, collectionPath, v.Transient(), nil); err != nil {
			errs = append(errs, fmt.Errorf("import %s: %w", v, err))
			continue
		}
		created++
	}
	err := errors.Join(errs...)
	if err != nil {
		c.update(func(s *State) { s.Err = err })
	}
	logging.Infof("vehicles: imported %d of %d vehicles", created, len(vs))
	if err == nil || c.policy == PolicyAlwaysRefresh {
		_ = c.LoadAll(ctx)
	}
	return created, err
}
