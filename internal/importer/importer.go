package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/repository"
	"github.com/qri-io/jsonschema"
)

// legacySchema validates the flat JSON export of the legacy config format:
// a list of {name, url, key} records.
var legacySchema = []byte(`{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "url", "key"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"url": {"type": "string", "minLength": 1},
			"key": {"type": "string", "minLength": 1}
		}
	}
}`)

type legacyProject struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Key  string `json:"key"`
}

// Report summarizes one import. Skipped counts duplicates, reported
// distinctly from created and failed records.
type Report struct {
	Created int
	Skipped int
	Failed  int
}

// Run bulk-loads legacy project definitions through the store's create
// operation. Duplicate names are skipped, never overwritten. Legacy records
// carry no method configuration, so imports default to rpc.
func Run(ctx context.Context, store repository.ProjectStore, r io.Reader, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read legacy file: %w", err)
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(legacySchema, rs); err != nil {
		return nil, fmt.Errorf("compile legacy schema: %w", err)
	}
	verrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("validate legacy file: %w", err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("legacy file is not valid: %s", verrs[0].Error())
	}

	var legacy []legacyProject
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy file: %w", err)
	}

	report := &Report{}
	for _, lp := range legacy {
		_, err := store.Create(ctx, repository.CreateProjectParams{
			Name:        lp.Name,
			EndpointURL: lp.URL,
			Credential:  lp.Key,
			Method:      models.MethodRPC,
			Enabled:     true,
		})
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			logger.Warn("skipping legacy project, name already exists", "name", lp.Name)
			report.Skipped++
		case err != nil:
			logger.Error("failed to import legacy project", "name", lp.Name, "err", err)
			report.Failed++
		default:
			logger.Info("imported legacy project", "name", lp.Name)
			report.Created++
		}
	}

	return report, nil
}
