package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Config controls where a run's metrics are written.
type Config struct {
	// Enabled turns metric collection on.
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// Textfile is a path for the node-exporter textfile collector
	// (e.g. /var/lib/node_exporter/blockpurge.prom). Empty disables it.
	Textfile string `mapstructure:"textfile" json:"textfile" yaml:"textfile"`

	// PushURL is a Pushgateway base URL. Empty disables pushing.
	PushURL string `mapstructure:"push_url" json:"push_url" validate:"omitempty,url" yaml:"push_url"`

	// Job is the Pushgateway job name.
	// Default: "blockpurge"
	Job string `mapstructure:"job" json:"job" yaml:"job"`
}

// Flush writes the current registry to every configured sink. It is a no-op
// when metrics are disabled. Errors from each sink are joined.
func Flush(ctx context.Context, cfg Config, groupings map[string]string) error {
	reg := GetRegistry()
	if !cfg.Enabled || reg == nil {
		return nil
	}

	var errs []error
	if cfg.Textfile != "" {
		if err := writeTextfile(cfg.Textfile, reg); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.PushURL != "" {
		if err := pushTo(ctx, cfg, reg, groupings); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeTextfile(path string, g prometheus.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create textfile directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

func pushTo(ctx context.Context, cfg Config, g prometheus.Gatherer, groupings map[string]string) error {
	job := cfg.Job
	if job == "" {
		job = "blockpurge"
	}

	p := push.New(cfg.PushURL, job).Gatherer(g)
	for k, v := range groupings {
		p = p.Grouping(k, v)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", cfg.PushURL, err)
	}
	return nil
}
