package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sergiop90/kmzcrt/internal/config"
	"github.com/sergiop90/kmzcrt/internal/logger"
	"github.com/sergiop90/kmzcrt/internal/shell"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file" default:"kmzcrt.yaml"`
	Datum      string `short:"d" long:"datum"  env:"DATUM"       description:"Session datum for UTM input, overrides the configuration"`
	Open       string `short:"o" long:"open"                     description:"Open a KMZ file on startup"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		cfg = config.Default()
	}
	if opts.Datum != "" {
		cfg.Datum = opts.Datum
	}

	sess, err := shell.NewSession(cfg, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start session")
	}

	if opts.Open != "" {
		if _, err := sess.Execute("open " + opts.Open); err != nil {
			log.Fatal().Err(err).Str("path", opts.Open).Msg("Failed to open file")
		}
	}

	fmt.Println("KMZ Creator shell. Type help or ? to list commands, exit to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("[kmzcrt] >>> ")
		if !scanner.Scan() {
			break // EOF quits like exit
		}

		quit, err := sess.Execute(scanner.Text())
		if err != nil {
			log.Error().Err(err).Msg("Command failed")
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("Input error")
	}
}
