package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-commsdash/components/dashboard"
)

type generateCmd struct {
	Entity string `arg:"" help:"Entity to generate (campaigns, templates, audiences, channels, alerts, audit_logs, users, jobs, system_health, live_feed, daily_metrics, cost_summaries, communication_summaries)."`
	Count  int    `default:"10" help:"Number of records; days or months for report entities."`
	Format string `default:"json" enum:"json,yaml" help:"Output format."`
	Seed   uint64 `help:"Generator seed. Zero picks one from the clock."`

	out io.Writer
}

func (cmd *generateCmd) Run() error {
	seed := cmd.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	records, err := dashboard.NewSeededGenerator(seed, time.Now).Generate(cmd.Entity, cmd.Count)
	if err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	return writeRecords(out, cmd.Format, records)
}

func writeRecords(w io.Writer, format string, records any) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("commsdash: encode yaml: %w", err)
		}
		return encoder.Close()
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("commsdash: encode json: %w", err)
		}
		return nil
	}
}
