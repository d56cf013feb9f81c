package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"
)

type infoCmd struct{}

func (c *infoCmd) Name() string     { return "info" }
func (c *infoCmd) Synopsis() string { return "print a YAML summary of maps" }
func (c *infoCmd) Usage() string {
	return "tmxutils info <path>...\n"
}
func (c *infoCmd) SetFlags(_ *flag.FlagSet) {}

type mapInfo struct {
	File        string            `yaml:"file"`
	Orientation string            `yaml:"orientation"`
	Width       int               `yaml:"width"`
	Height      int               `yaml:"height"`
	TileWidth   int               `yaml:"tilewidth"`
	TileHeight  int               `yaml:"tileheight"`
	Properties  map[string]string `yaml:"properties,omitempty"`
	Tilesets    []tilesetInfo     `yaml:"tilesets,omitempty"`
	Layers      []layerInfo       `yaml:"layers,omitempty"`
	Files       []string          `yaml:"files,omitempty"`
}

type tilesetInfo struct {
	FirstGID uint32 `yaml:"firstgid"`
	Name     string `yaml:"name,omitempty"`
	File     string `yaml:"file,omitempty"`
}

type layerInfo struct {
	Name        string      `yaml:"name"`
	Kind        string      `yaml:"kind"`
	Hidden      bool        `yaml:"hidden,omitempty"`
	Opacity     float64     `yaml:"opacity"`
	Encoding    string      `yaml:"encoding,omitempty"`
	Compression string      `yaml:"compression,omitempty"`
	Tiles       int         `yaml:"tiles,omitempty"`
	Error       string      `yaml:"error,omitempty"`
	Objects     int         `yaml:"objects,omitempty"`
	Layers      []layerInfo `yaml:"layers,omitempty"`
}

func describeLayers(ls tmx.Layers) []layerInfo {
	var result []layerInfo
	for _, l := range ls {
		common := l.Info()
		info := layerInfo{
			Name:    common.Name,
			Hidden:  !bool(common.Visible),
			Opacity: common.Opacity,
		}
		switch l := l.(type) {
		case *tmx.TileLayer:
			info.Kind = "tiles"
			info.Encoding = l.Data.Encoding
			info.Compression = l.Data.Compression
			ids, err := l.Tiles()
			if err != nil {
				info.Error = err.Error()
			}
			for _, id := range ids {
				if id != 0 {
					info.Tiles++
				}
			}
		case *tmx.ImageLayer:
			info.Kind = "image"
		case *tmx.ObjectGroup:
			info.Kind = "objects"
			info.Objects = len(l.Objects)
		case *tmx.Group:
			info.Kind = "group"
			info.Layers = describeLayers(l.Layers)
		}
		result = append(result, info)
	}
	return result
}

func describeMap(m *tmx.Map) mapInfo {
	info := mapInfo{
		File:        m.FileName,
		Orientation: m.Orientation,
		Width:       m.Width,
		Height:      m.Height,
		TileWidth:   m.TileWidth,
		TileHeight:  m.TileHeight,
		Properties:  m.PropertyMap(),
		Layers:      describeLayers(m.Layers),
		Files:       m.ReferencedFiles(),
	}
	for _, tileset := range m.Tilesets {
		info.Tilesets = append(info.Tilesets, tilesetInfo{
			FirstGID: tileset.FirstGID,
			Name:     tileset.Name,
			File:     tileset.ReferencedFile(),
		})
	}
	return info
}

func writeInfo(w io.Writer, infos []mapInfo) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	for _, info := range infos {
		if err := encoder.Encode(info); err != nil {
			return err
		}
	}
	return encoder.Close()
}

func (c *infoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	status := subcommands.ExitSuccess
	var infos []mapInfo
	for _, filePath := range f.Args() {
		m, err := loadMap(filePath)
		if err != nil {
			log.Println(err)
			status = subcommands.ExitFailure
			continue
		}
		infos = append(infos, describeMap(m))
	}

	if err := writeInfo(os.Stdout, infos); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	return status
}
