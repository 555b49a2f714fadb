package executor

import (
	"time"

	"github.com/iqbalbaharum/swap-executor/internal/config"
	"github.com/iqbalbaharum/swap-executor/internal/instructions"
)

type Config struct {
	// Blocks past the broadcast height after which a pending transaction is expired.
	ExpiryWindow         uint64
	PollInterval         time.Duration
	MaxAttempts          int
	DefaultMicroLamports uint64
	SimulationUnits      uint32
}

func DefaultConfig() Config {
	return Config{
		ExpiryWindow:         150,
		PollInterval:         time.Second,
		MaxAttempts:          60,
		DefaultMicroLamports: instructions.DEFAULT_MICRO_LAMPORTS,
		SimulationUnits:      instructions.SIMULATION_COMPUTE_UNIT,
	}
}

func ConfigFrom(c config.ConfirmConfig) Config {
	return Config{
		ExpiryWindow:         c.ExpiryWindow,
		PollInterval:         c.PollInterval,
		MaxAttempts:          c.MaxAttempts,
		DefaultMicroLamports: c.DefaultPriorityFee,
		SimulationUnits:      c.SimulationLimit,
	}
}
