package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"stimgen/internal/experiment"
)

func main() {
	logger := log.New(os.Stdout, "[STIMGEN] ", log.LstdFlags)

	cfg, suite := parseFlags(os.Args[1:], logger)
	configs := []experiment.Config{cfg}
	if suite {
		configs = experiment.LocalizationSuite(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, c := range configs {
		res, err := experiment.Run(ctx, c, logger)
		if err != nil {
			logger.Fatalf("%s: %v", c.Name, err)
		}
		for _, f := range res.Files {
			logger.Printf("wrote %s", f)
		}
	}
}

// parseFlags applies, in order, the defaults, the optional -config JSON file
// and the remaining command-line flags.
func parseFlags(args []string, logger *log.Logger) (experiment.Config, bool) {
	boot := flag.NewFlagSet("stimgen", flag.ExitOnError)
	cfg := experiment.DefaultConfig()
	cfg.Bind(boot)
	path := boot.String("config", "", "JSON experiment config")
	suite := boot.Bool("suite", false, "run the localization suite around the config")
	_ = boot.Parse(args)
	if *path == "" {
		return cfg, *suite
	}

	loaded, err := experiment.LoadConfig(*path, logger)
	if err != nil {
		logger.Fatal(err)
	}
	fs := flag.NewFlagSet("stimgen", flag.ExitOnError)
	loaded.Bind(fs)
	fs.String("config", *path, "JSON experiment config")
	fs.Bool("suite", *suite, "run the localization suite around the config")
	_ = fs.Parse(args)
	return loaded, *suite
}
