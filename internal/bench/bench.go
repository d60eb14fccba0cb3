// Package bench runs readers and a writer against a dbuf.Buffer and reports how
// long it took and what the readers observed.
package bench

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/pcg"

	"github.com/zeebo/dbuf"
	"github.com/zeebo/dbuf/internal/config"
)

// Foo is the value written by the benchmark.
type Foo struct {
	Val int
}

// Result summarizes a run.
type Result struct {
	Elapsed      time.Duration
	Final        Foo    // value read after all goroutines joined
	Gen          uint64 // generation of Final
	Reads        uint64 // successful reads
	Unavailable  uint64 // reads that got no snapshot
	Regressions  uint64 // reads that saw an older generation than the previous one
	ReadersAfter int    // registered readers after join
}

// Run executes one benchmark described by cfg.
func Run(cfg config.BenchCfg) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	buf := dbuf.New(Foo{}, dbuf.WithMaxReaders(cfg.MaxReaders))
	defer buf.Close()

	var (
		wg          sync.WaitGroup
		reads       atomic.Uint64
		unavailable atomic.Uint64
		regressions atomic.Uint64
	)

	begin := time.Now()

	wg.Add(cfg.Readers + 1)
	for i := 0; i < cfg.Readers; i++ {
		go func(i int) {
			defer wg.Done()
			rd := newReadFunc(buf, cfg.Binding)
			defer rd.close()

			rng := pcg.New(cfg.Seed + uint64(i))
			var ok, miss, back, last uint64
			for j := 0; j < cfg.ReadIters; j++ {
				g := rd.read()
				if !g.Ok() {
					miss++
					continue
				}
				if g.Gen() < last {
					back++
				}
				last = g.Gen()
				_ = g.Value().Val
				if cfg.HoldSpins > 0 {
					for n := rng.Uint32n(uint32(cfg.HoldSpins)); n > 0; n-- {
						runtime.Gosched()
					}
				}
				g.Release()
				ok++
			}
			reads.Add(ok)
			unavailable.Add(miss)
			regressions.Add(back)
		}(i)
	}

	go func() {
		defer wg.Done()
		for i := 0; i < cfg.Writes; i++ {
			buf.Write(Foo{Val: i + 1})
			if d := cfg.WriteDelay(); d > 0 {
				time.Sleep(d)
			}
		}
	}()

	wg.Wait()
	elapsed := time.Since(begin)

	res := Result{
		Elapsed:     elapsed,
		Reads:       reads.Load(),
		Unavailable: unavailable.Load(),
		Regressions: regressions.Load(),
	}

	// readers with explicit handles have closed them by now. pooled handles
	// stay registered until collected, so report what is left either way.
	res.ReadersAfter = buf.Readers()

	final, gen, ok := buf.Load()
	if !ok {
		return res, errors.New("bench: final read unavailable")
	}
	res.Final, res.Gen = final, gen
	return res, nil
}

// readFunc hides which binding a reader goroutine uses.
type readFunc struct {
	buf      *dbuf.Buffer[Foo]
	r        *dbuf.Reader[Foo]
	explicit bool
}

func newReadFunc(buf *dbuf.Buffer[Foo], binding string) readFunc {
	rd := readFunc{buf: buf, explicit: binding == config.BindingExplicit}
	if rd.explicit {
		// a failed registration leaves r nil and every read unavailable, which
		// the run reports.
		rd.r, _ = buf.NewReader()
	}
	return rd
}

func (rd readFunc) read() dbuf.Guard[Foo] {
	switch {
	case !rd.explicit:
		return rd.buf.Read()
	case rd.r != nil:
		return rd.r.Read()
	default:
		return dbuf.Guard[Foo]{}
	}
}

func (rd readFunc) close() {
	if rd.r != nil {
		rd.r.Close()
	}
}
