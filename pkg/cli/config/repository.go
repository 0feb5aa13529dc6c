package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/domain/interfaces"
	"github.com/secmon-lab/medmatch/pkg/repository/file"
	"github.com/secmon-lab/medmatch/pkg/repository/firestore"
	"github.com/secmon-lab/medmatch/pkg/repository/gcs"
	"github.com/secmon-lab/medmatch/pkg/repository/memory"
	"github.com/secmon-lab/medmatch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for the snapshot store backend
type Repository struct {
	backend    string
	dir        string
	projectID  string
	databaseID string
	bucket     string
	endpoint   string
	prefix     string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Category:    "Repository",
			Usage:       "Snapshot store backend [memory|file|firestore|gcs]",
			Value:       "file",
			Sources:     cli.EnvVars("MEDMATCH_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Category:    "Repository",
			Usage:       "Directory for the file backend",
			Value:       "./data",
			Sources:     cli.EnvVars("MEDMATCH_DATA_DIR"),
			Destination: &r.dir,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Repository",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("MEDMATCH_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Repository",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("MEDMATCH_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Category:    "Repository",
			Usage:       "Cloud Storage bucket (required when using gcs backend)",
			Sources:     cli.EnvVars("MEDMATCH_GCS_BUCKET"),
			Destination: &r.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Category:    "Repository",
			Usage:       "Storage emulator endpoint, e.g. http://localhost:4443/storage/v1/",
			Sources:     cli.EnvVars("MEDMATCH_GCS_ENDPOINT"),
			Destination: &r.endpoint,
		},
		&cli.StringFlag{
			Name:        "repository-prefix",
			Category:    "Repository",
			Usage:       "Collection or object name prefix for firestore and gcs backends",
			Sources:     cli.EnvVars("MEDMATCH_REPOSITORY_PREFIX"),
			Destination: &r.prefix,
		},
	}
}

// LogValue implements slog.LogValuer
func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("dir", r.dir),
		slog.String("project_id", r.projectID),
		slog.String("database_id", r.databaseID),
		slog.String("bucket", r.bucket),
		slog.String("prefix", r.prefix),
	)
}

// Configure opens the configured store. The caller closes it.
func (r *Repository) Configure(ctx context.Context) (interfaces.KVStore, error) {
	switch r.backend {
	case "memory":
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	case "file", "":
		store, err := file.New(r.dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file repository")
		}
		logging.Default().Info("Using file repository", "dir", r.dir)
		return store, nil

	case "firestore":
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingOption, "firestore-project-id is required when using firestore backend")
		}
		store, err := firestore.New(ctx, r.projectID, r.databaseID, firestore.WithCollectionPrefix(r.prefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return store, nil

	case "gcs":
		if r.bucket == "" {
			return nil, goerr.Wrap(ErrMissingOption, "gcs-bucket is required when using gcs backend")
		}
		store, err := gcs.New(ctx, r.bucket,
			gcs.WithPrefix(r.prefix),
			gcs.WithEndpoint(r.endpoint),
		)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs repository")
		}
		logging.Default().Info("Using Cloud Storage repository", "bucket", r.bucket)
		return store, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "invalid repository backend", goerr.V(BackendKey, r.backend))
	}
}
