// Command arena runs the offline RPG demo: class and kind tables, NPC
// interactions, progression, battles and tournaments, printed to stdout.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	verbose := flag.Bool("v", false, "log every resolved attack to stderr")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	start := time.Now()
	newDemo(os.Stdout, logger).run()
	logger.Info().Dur("elapsed", time.Since(start)).Msg("demo finished")
}
