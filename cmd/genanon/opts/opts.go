package opts

import (
	"github.com/primed-bio/genanon/pkg/config"
)

// RootOpts contains shared options used by all commands.
type RootOpts struct {
	Config *config.Config
}
