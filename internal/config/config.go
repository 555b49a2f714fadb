package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	SYSTEM_PROGRAM = solana.SystemProgramID
)

type Config struct {
	RpcHttpUrl     string `envconfig:"RPC_HTTP_URL" default:"https://api.mainnet-beta.solana.com"`
	JupiterUrl     string `envconfig:"JUPITER_URL" default:"https://quote-api.jup.ag/v6"`
	BlockEngineUrl string `envconfig:"BLOCKENGINE_URL" default:"https://mainnet.block-engine.jito.wtf"`
	BloxRouteUrl   string `envconfig:"BLOXROUTE_URL" default:"https://ny.solana.dex.blxrbdn.com/api/v2/submit"`
	BloxRouteToken string `envconfig:"BLOXROUTE_TOKEN"`
	BloxRouteStake bool   `envconfig:"BLOXROUTE_USE_STAKED_RPCS" default:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"1"`
	MySqlDsn      string `envconfig:"MYSQL_DSN"`
	MySqlDbName   string `envconfig:"MYSQL_DB_NAME" default:"swap_executor"`

	Log LogConfig `envconfig:"LOG"`

	Confirm ConfirmConfig `envconfig:"CONFIRM"`

	ServerPort int `envconfig:"PORT" default:"5000"`
}

type LogConfig struct {
	Format   string `envconfig:"FORMAT" default:"console"` // console | json
	Level    string `envconfig:"LEVEL" default:"info"`
	LogDir   string `envconfig:"DIR"`
	Compress bool   `envconfig:"COMPRESS"`
}

// ConfirmConfig feeds executor.Config.
type ConfirmConfig struct {
	ExpiryWindow       uint64        `envconfig:"EXPIRY_WINDOW" default:"150"`
	PollInterval       time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	MaxAttempts        int           `envconfig:"MAX_ATTEMPTS" default:"60"`
	DefaultPriorityFee uint64        `envconfig:"DEFAULT_PRIORITY_FEE" default:"1000"`
	SimulationLimit    uint32        `envconfig:"SIMULATION_CU_LIMIT" default:"400000"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env var: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Confirm.ExpiryWindow == 0 {
		return errors.New("CONFIRM_EXPIRY_WINDOW must be greater than 0")
	}
	if c.Confirm.PollInterval <= 0 {
		return errors.New("CONFIRM_POLL_INTERVAL must be greater than 0")
	}
	if c.Confirm.MaxAttempts <= 0 {
		return errors.New("CONFIRM_MAX_ATTEMPTS must be greater than 0")
	}
	return nil
}
