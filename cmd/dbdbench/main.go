package main

import (
	"flag"
	"log"

	"github.com/zeebo/dbuf/internal/bench"
	"github.com/zeebo/dbuf/internal/config"
)

func main() {
	confPath := flag.String("c", "", "path to config file (default: 8 readers, 2 writes)")
	flag.Parse()

	cfg := config.Default()
	if *confPath != "" {
		var err error
		cfg, err = config.Load(*confPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	for i, run := range cfg.Runs {
		log.Printf("run %d: readers=%d reads=%d writes=%d binding=%s",
			i, run.Readers, run.ReadIters, run.Writes, run.Binding)

		res, err := bench.Run(run)
		if err != nil {
			log.Fatalf("run %d failed: %v", i, err)
		}

		log.Printf("run %d: elapsed=%v final=%d gen=%d reads=%d unavailable=%d regressions=%d readers_after=%d",
			i, res.Elapsed, res.Final.Val, res.Gen, res.Reads, res.Unavailable, res.Regressions, res.ReadersAfter)
	}
}
