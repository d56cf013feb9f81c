package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/eak1mov/go-libtmx/cellindex"
	"github.com/eak1mov/go-libtmx/store"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type exportCmd struct {
	inputPath    string
	outputPath   string
	outputFormat string
}

func (c *exportCmd) Name() string     { return "export" }
func (c *exportCmd) Synopsis() string { return "export decoded map cells" }
func (c *exportCmd) Usage() string {
	return "tmxutils export -i <path> -o <path> [-of <format>]\n"
}
func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input map path")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (sqlite, index)")
}

// collectCells decodes every tile layer and returns its non-empty cells.
func collectCells(m *tmx.Map) ([]cellindex.Item, error) {
	var items []cellindex.Item
	err := walkTileLayers(m, func(index uint32, layer *tmx.TileLayer) error {
		ids, err := layer.Tiles()
		if err != nil {
			return err
		}
		items = append(items, cellindex.FromLayer(index, ids, m.Width)...)
		return nil
	})
	return items, err
}

func mapMetadata(m *tmx.Map) map[string]string {
	metadata := map[string]string{
		"width":       strconv.Itoa(m.Width),
		"height":      strconv.Itoa(m.Height),
		"tilewidth":   strconv.Itoa(m.TileWidth),
		"tileheight":  strconv.Itoa(m.TileHeight),
		"orientation": m.Orientation,
	}
	if name, ok := m.PropertyMap()["name"]; ok {
		metadata["name"] = name
	}
	if m.FileName != "" {
		metadata["source"] = m.FileName
	}
	return metadata
}

func exportSqlite(m *tmx.Map, items []cellindex.Item, filePath string) error {
	writer, err := store.NewWriter(
		filePath,
		store.WithMetadata(mapMetadata(m)),
		store.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, file := range m.ReferencedFiles() {
		if err := writer.WriteFile(file); err != nil {
			return err
		}
	}

	bar := progressbar.NewOptions(len(items), progressbar.OptionShowIts(), progressbar.OptionShowCount())
	for _, item := range items {
		cell := store.Cell{Layer: item.Layer, X: item.X, Y: item.Y, GID: item.GID}
		if err := writer.WriteCell(cell); err != nil {
			return err
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	return writer.Finalize()
}

func exportIndex(m *tmx.Map, items []cellindex.Item, filePath string) error {
	curve, err := cellindex.NewCurve(m.Width, m.Height)
	if err != nil {
		return err
	}
	if err := curve.Sort(items); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := cellindex.WriteAll(items, writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return file.Close()
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" || c.outputPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	m, err := loadMap(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	items, err := collectCells(m)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	switch deduceFormat(c.outputFormat, c.outputPath) {
	case "sqlite":
		err = exportSqlite(m, items, c.outputPath)
	case "index":
		err = exportIndex(m, items, c.outputPath)
	default:
		log.Printf("invalid output format: %q", c.outputFormat)
		return subcommands.ExitFailure
	}

	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
