package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/akhenakh/writhe/writhe"
)

// config is the command configuration. It is read from an optional JSON
// file; flags given on the command line override it.
type config struct {
	Formulation  string  `json:"formulation"`
	Execution    string  `json:"execution"`
	Workers      int     `json:"workers,omitempty"`
	BatchSize    int     `json:"batchSize,omitempty"`
	SkipAdjacent bool    `json:"skipAdjacent,omitempty"`
	Normalize    string  `json:"normalize"`
	NearZero     bool    `json:"nearZero,omitempty"`
	Linking      bool    `json:"linking,omitempty"`
	Dump         string  `json:"dump,omitempty"`
	Perturb      int     `json:"perturb,omitempty"`
	Magnitude    float64 `json:"magnitude,omitempty"`
	Seed         int64   `json:"seed,omitempty"`
	Log          string  `json:"log,omitempty"`
}

func defaultConfig() config {
	o := writhe.DefaultAggregatorOptions()
	return config{
		Formulation: o.Formulation.String(),
		Execution:   o.Execution.String(),
		Workers:     o.Workers,
		BatchSize:   o.BatchSize,
		Normalize:   o.Normalization.String(),
		Magnitude:   1,
		Seed:        1,
	}
}

// loadConfig reads a JSON configuration on top of the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// aggregatorOptions converts the configuration to aggregator options.
func (c config) aggregatorOptions() (writhe.AggregatorOptions, error) {
	o := writhe.DefaultAggregatorOptions()
	var err error
	if o.Formulation, err = writhe.ParseFormulation(c.Formulation); err != nil {
		return o, err
	}
	if o.Execution, err = writhe.ParseExecution(c.Execution); err != nil {
		return o, err
	}
	if o.Normalization, err = writhe.ParseNormalization(c.Normalize); err != nil {
		return o, err
	}
	if c.Workers < 0 {
		return o, fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	o.Workers = c.Workers
	if c.BatchSize > 0 {
		o.BatchSize = c.BatchSize
	}
	o.SkipAdjacent = c.SkipAdjacent
	if c.NearZero {
		o.Policy = writhe.NearZero
	}
	return o, nil
}
