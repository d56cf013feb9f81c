package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/eak1mov/go-libtmx/tmx/spec"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type recodeCmd struct {
	inputPath  string
	outputPath string
}

func (c *recodeCmd) Name() string     { return "recode" }
func (c *recodeCmd) Synopsis() string { return "rewrite tile layers as gzip compressed base64" }
func (c *recodeCmd) Usage() string {
	return "tmxutils recode -i <path> -o <path>\n"
}
func (c *recodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input map path")
	f.StringVar(&c.outputPath, "o", "", "Output map path")
}

func recodeMap(m *tmx.Map, bar *progressbar.ProgressBar) error {
	return walkTileLayers(m, func(_ uint32, layer *tmx.TileLayer) error {
		ids, err := layer.Tiles()
		if err != nil {
			return err
		}
		if err := layer.SetTileData(ids, spec.EncodingBase64, spec.CompressionGzip); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
		return nil
	})
}

func (c *recodeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" || c.outputPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := loadMap(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowIts(), progressbar.OptionShowCount())
	err = recodeMap(m, bar)
	bar.Finish()
	fmt.Println()

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if err := m.Save(c.outputPath); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
