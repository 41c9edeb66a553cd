package main

import (
	"errors"
	"fmt"

	"github.com/lox/rps/internal/config"
	"github.com/lox/rps/internal/fileutil"
)

// InitConfigCmd writes the default configuration to disk
type InitConfigCmd struct {
	Path  string `arg:"" optional:"" default:"${config_file}" type:"path" help:"Where to write the config"`
	Force bool   `help:"Overwrite an existing file"`
}

func (c *InitConfigCmd) Run() error {
	data := config.Default().Encode()

	write := fileutil.WriteFileExclusive
	if c.Force {
		write = fileutil.WriteFileAtomic
	}
	if err := write(c.Path, data, 0o644); err != nil {
		if errors.Is(err, fileutil.ErrExists) {
			return fmt.Errorf("%s already exists, use --force to overwrite", c.Path)
		}
		return err
	}

	fmt.Printf("Wrote %s\n", c.Path)
	return nil
}
