package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/charleshuang3/teamcrm/internal/filestore"
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/handlers/api"
	"github.com/charleshuang3/teamcrm/internal/handlers/middleware"
	"github.com/charleshuang3/teamcrm/internal/logging"
	"github.com/charleshuang3/teamcrm/internal/proxy"
)

var (
	logger = logging.Component("config")
)

type Config struct {
	Port    uint   `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	DB gormw.Config `yaml:"db"`
	// RelationalDB stores listings and csv imports, DB is used when unset.
	RelationalDB *gormw.Config `yaml:"relational_db,omitempty"`

	Backend    proxy.Config          `yaml:"backend"`
	Auth       middleware.AuthConfig `yaml:"auth"`
	Files      filestore.Config      `yaml:"files"`
	Invitation api.InvitationConfig  `yaml:"invitation"`
	Log        LogConfig             `yaml:"log"`
}

// LoadConfig loads the config of the server, missing values are fatal.
func LoadConfig(path string) *Config {
	cfg := decode(path)
	cfg.validate()
	return cfg
}

// LoadAdminConfig loads the config for the admin CLI, which only touches
// the DB and invitations.
func LoadAdminConfig(path string) *Config {
	cfg := decode(path)
	cfg.Invitation.Validate()
	return cfg
}

func decode(path string) *Config {
	cfg := &Config{}

	file, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Msgf("failed to open config file: %s", path)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to decode config file")
	}

	return cfg
}

func (c *Config) validate() {
	if c.Port == 0 {
		logger.Fatal().Msg("Port is missing")
	}

	if c.GinMode == "" {
		logger.Fatal().Msg("GinMode is missing")
	}

	c.Backend.Validate()
	c.Auth.Validate()
	c.Files.Validate()
	c.Invitation.Validate()
	c.Log.Validate()
}
