package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"
)

type filesCmd struct {
	nullSeparated bool
}

func (c *filesCmd) Name() string     { return "files" }
func (c *filesCmd) Synopsis() string { return "list files referenced by maps" }
func (c *filesCmd) Usage() string {
	return "tmxutils files [-0] <path>...\n"
}
func (c *filesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.nullSeparated, "0", false, "Separate paths with NUL instead of newline")
}

func (c *filesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	separator := byte('\n')
	if c.nullSeparated {
		separator = 0
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	status := subcommands.ExitSuccess
	for _, filePath := range f.Args() {
		m, err := loadMap(filePath)
		if err != nil {
			log.Println(err)
			status = subcommands.ExitFailure
			continue
		}
		for _, file := range m.ReferencedFiles() {
			writer.WriteString(file)
			writer.WriteByte(separator)
		}
	}

	return status
}
