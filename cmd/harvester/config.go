package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tenderhound/tenderhound/pkg/config/env"
)

const defaultMinYear = 2017

type HarvesterConfig struct {
	FTPAddr string
	DataDir string

	Passkey string
	MinYear int

	// Start a harvest run on boot, resuming from the persisted cursor.
	FetchOnStart bool

	RegistryURL      string
	RegistryUser     string
	RegistryPassword string

	// Optional YAML override of the notice field-mapping tables.
	MappingPath string
}

func LoadConfig() (*HarvesterConfig, error) {
	_ = env.LoadDotEnv(os.Getenv("ENV"), "cmd/harvester/.env")

	ftpAddr := os.Getenv("FTP_ADDR")
	if ftpAddr == "" {
		return nil, fmt.Errorf("FTP_ADDR environment variable is not set")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = os.TempDir()
	}

	minYear := defaultMinYear
	if raw := os.Getenv("FETCH_MIN_YEAR"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_MIN_YEAR: %w", err)
		}
		minYear = parsed
	}

	return &HarvesterConfig{
		FTPAddr:          ftpAddr,
		DataDir:          dataDir,
		Passkey:          os.Getenv("FETCH_PASSKEY"),
		MinYear:          minYear,
		FetchOnStart:     os.Getenv("FETCH_ON_START") == "true",
		RegistryURL:      os.Getenv("REGISTRY_URL"),
		RegistryUser:     os.Getenv("REGISTRY_USER"),
		RegistryPassword: os.Getenv("REGISTRY_PASSWORD"),
		MappingPath:      os.Getenv("NOTICE_MAPPING_PATH"),
	}, nil
}
