package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-commsdash/components/dashboard"
)

type manifestCmd struct {
	Init  manifestInitCmd  `cmd:"" help:"Write the built-in catalog as an editable manifest."`
	Check manifestCheckCmd `cmd:"" help:"Validate a manifest against the built-in catalog."`
}

type manifestInitCmd struct {
	Path      string `arg:"" type:"path" help:"Destination manifest file."`
	Name      string `default:"commsdash" help:"Manifest name."`
	Overwrite bool   `help:"Replace an existing file."`
}

func (cmd *manifestInitCmd) Run(logger *logrus.Logger) error {
	if _, err := os.Stat(cmd.Path); err == nil && !cmd.Overwrite {
		return fmt.Errorf("commsdash: manifest %s already exists (use --overwrite to replace)", cmd.Path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("commsdash: stat manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cmd.Path), 0o755); err != nil {
		return fmt.Errorf("commsdash: mkdir %s: %w", filepath.Dir(cmd.Path), err)
	}
	file, err := os.Create(cmd.Path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("commsdash: create manifest %s: %w", cmd.Path, err)
	}
	defer file.Close()
	if err := dashboard.EncodeManifest(file, dashboard.DefaultManifest(cmd.Name)); err != nil {
		return err
	}
	logger.WithField("path", cmd.Path).Info("manifest written")
	return nil
}

type manifestCheckCmd struct {
	Path string `arg:"" type:"existingfile" help:"Manifest file to validate."`

	out io.Writer
}

func (cmd *manifestCheckCmd) Run() error {
	registry := dashboard.NewRegistry()
	doc, err := registry.LoadManifestFile(cmd.Path)
	if err != nil {
		return err
	}
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "%s: %d view overrides, %d sections\n", cmd.Path, len(doc.Views), len(registry.Sections()))
	return nil
}
