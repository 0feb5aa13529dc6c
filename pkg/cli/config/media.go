package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medmatch/pkg/service/media"
	"github.com/urfave/cli/v3"
)

// Media selects where uploaded photos are kept
type Media struct {
	dir string
}

func (m *Media) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "media-dir",
			Category:    "Repository",
			Usage:       "Directory for uploaded photos. Photos are kept in memory when empty",
			Sources:     cli.EnvVars("MEDMATCH_MEDIA_DIR"),
			Destination: &m.dir,
		},
	}
}

func (m *Media) Configure() (*media.Store, error) {
	if m.dir == "" {
		return media.NewMemory(), nil
	}
	store, err := media.NewDir(m.dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize media store", goerr.V("dir", m.dir))
	}
	return store, nil
}
