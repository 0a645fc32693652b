package main

import (
	"fmt"
	"os"
)

// SimConfig holds configuration for the simulator, loaded from environment variables.
type SimConfig struct {
	ListenAddr string
	SeedFile   string
	Username   string
	Password   string
	APIKey     string
}

func loadSimConfig() (*SimConfig, error) {
	cfg := &SimConfig{
		ListenAddr: os.Getenv("SIM_LISTEN_ADDR"),
		SeedFile:   os.Getenv("SIM_SEED_FILE"),
		Username:   os.Getenv("SIM_USERNAME"),
		Password:   os.Getenv("SIM_PASSWORD"),
		APIKey:     os.Getenv("SIM_API_KEY"),
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":12400"
	}
	if cfg.Password != "" && cfg.Username == "" {
		return nil, fmt.Errorf("SIM_USERNAME is required when SIM_PASSWORD is set")
	}
	if cfg.Username != "" && cfg.Password == "" {
		return nil, fmt.Errorf("SIM_PASSWORD is required when SIM_USERNAME is set")
	}
	return cfg, nil
}
