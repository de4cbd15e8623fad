package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"shenanigigs/statistics/internal/config"
	"shenanigigs/statistics/internal/errors"
	"shenanigigs/statistics/internal/filter"
	"shenanigigs/statistics/internal/processor"
)

type Args struct {
	InputPath  string
	ConfigPath string
	Start      string
	End        string
	Output     string

	startSet  bool
	outputSet bool
}

// ParseArgs reads the command line. Flags may come before or after the
// chat export path.
func ParseArgs(args []string, out io.Writer) (*Args, error) {
	fs := pflag.NewFlagSet("statistics", pflag.ContinueOnError)
	fs.SetOutput(out)

	parsed := &Args{}
	fs.StringVar(&parsed.Start, "start", config.DefaultStart, "Start date in format DD/MM/YYYY")
	fs.StringVar(&parsed.End, "end", "", "End date in format DD/MM/YYYY (default today)")
	fs.StringVar(&parsed.Output, "output", config.DefaultOutput, "Output file path")
	fs.StringVar(&parsed.ConfigPath, "config", "", "Optional YAML config file")
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: statistics [--start DD/MM/YYYY] [--end DD/MM/YYYY] [--output FILE.json] chat_file_export")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.InvalidInput("expected exactly one chat export path", nil)
	}

	parsed.InputPath = fs.Arg(0)
	parsed.startSet = fs.Changed("start")
	parsed.outputSet = fs.Changed("output")
	return parsed, nil
}

// Options validates the arguments in the order the user sees them
// reported: input file, --start, --end, --output. Defaults from cfg fill
// flags that were not given.
func (a *Args) Options(cfg *config.Config, now time.Time) (processor.Options, error) {
	startStr := a.Start
	if !a.startSet {
		startStr = cfg.Defaults.Start
	}
	endStr := a.End
	if endStr == "" {
		endStr = now.Format(filter.DateLayout)
	}
	output := a.Output
	if !a.outputSet {
		output = cfg.Defaults.Output
	}

	if _, err := os.Stat(a.InputPath); err != nil {
		return processor.Options{}, errors.NotFound("File does not exist", err)
	}

	start, err := filter.ParseDate(startStr)
	if err != nil {
		return processor.Options{}, errors.InvalidInput("Invalid date format for --start", err)
	}

	end, err := filter.ParseDate(endStr)
	if err != nil {
		return processor.Options{}, errors.InvalidInput("Invalid date format for --end", err)
	}

	if !strings.HasSuffix(output, ".json") {
		return processor.Options{}, errors.InvalidInput("Output file should be a json file", nil)
	}

	return processor.Options{
		InputPath:  a.InputPath,
		OutputPath: output,
		Start:      start,
		End:        end,
	}, nil
}
