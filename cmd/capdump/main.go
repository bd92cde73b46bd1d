// cmd/capdump/main.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// capdump prints a summary of frame captures written by spritedemo: the
// commands they hold, the draw statistics from replaying them, and any
// inconsistencies in the recorded device calls.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mmp/spritebatch/log"
	"github.com/mmp/spritebatch/renderer"
	"github.com/mmp/spritebatch/util"

	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"
)

var (
	verbose  = flag.Bool("v", false, "print the capture header and each pass's draw calls")
	logLevel = flag.String("loglevel", "warn", "logging level: debug, info, warn, error")
	logDir   = flag.String("logdir", "", "log file directory")
)

// Summary describes one capture.
type Summary struct {
	Capture  renderer.Capture
	Words    int
	Opcodes  map[renderer.Opcode]int
	Stats    renderer.RendererStats
	Textures map[uint32]int
	Passes   []int

	TextureBinds int
	StateChanges int
	MaxUpload    int
	Leaked       int
	Problems     []string
}

// Summarize decodes and replays the commands in cb.
func Summarize(cb *renderer.CommandBuffer, c renderer.Capture) (*Summary, error) {
	s := &Summary{
		Capture: c,
		Words:   len(cb.Buf),
		Opcodes: make(map[renderer.Opcode]int),
	}
	if err := cb.Decode(func(c *renderer.Command) error {
		s.Opcodes[c.Op]++
		return nil
	}); err != nil {
		return nil, err
	}

	d := newStatsDevice()
	stats, err := cb.Replay(d)
	if err != nil {
		return nil, err
	}
	stats.Passes = len(d.PassDraws)

	s.Stats = stats
	s.Textures = d.TextureQuads
	s.Passes = d.PassDraws
	s.TextureBinds = d.TextureBinds
	s.StateChanges = d.StateChanges
	s.MaxUpload = d.MaxUpload
	s.Leaked = d.Leaked()
	s.Problems = d.Problems
	return s, nil
}

func (s *Summary) Print(w io.Writer, verbose bool) {
	c := s.Capture
	fmt.Fprintf(w, "captured %s", c.Created.Format("2006-01-02 15:04:05"))
	if c.Note != "" {
		fmt.Fprintf(w, " (%s)", c.Note)
	}
	fmt.Fprintf(w, ", version %d, %d words\n", c.Version, s.Words)
	fmt.Fprintf(w, "  %s\n", s.Stats.String())
	fmt.Fprintf(w, "  %d texture binds, %d state changes, largest upload %d floats\n", s.TextureBinds,
		s.StateChanges, s.MaxUpload)

	var ops []string
	for _, op := range util.SortedMapKeys(s.Opcodes) {
		ops = append(ops, fmt.Sprintf("%s %d", op, s.Opcodes[op]))
	}
	fmt.Fprintf(w, "  commands: %s\n", strings.Join(ops, ", "))

	ids := util.SortedMapKeys(s.Textures)
	slices.SortStableFunc(ids, func(a, b uint32) int { return s.Textures[b] - s.Textures[a] })
	for _, id := range ids {
		fmt.Fprintf(w, "  texture %d: %d quads\n", id, s.Textures[id])
	}

	if s.Leaked > 0 {
		fmt.Fprintf(w, "  %d buffers never deleted\n", s.Leaked)
	}
	for _, p := range s.Problems {
		fmt.Fprintf(w, "  problem: %s\n", p)
	}

	if verbose {
		for i, n := range s.Passes {
			fmt.Fprintf(w, "  pass %d: %d draw calls\n", i, n)
		}
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: capdump [flags] capture.spc...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	failed := false
	for _, fn := range flag.Args() {
		cb, c, err := renderer.LoadCaptureFile(fn)
		if err != nil {
			lg.Errorf("%s: %v", fn, err)
			fmt.Fprintf(os.Stderr, "%s: %v\n", fn, err)
			failed = true
			continue
		}
		if *verbose {
			godump.Dump(c)
		}

		s, err := Summarize(cb, c)
		if err != nil {
			lg.Errorf("%s: %v", fn, err)
			fmt.Fprintf(os.Stderr, "%s: %v\n", fn, err)
			failed = true
			continue
		}

		fmt.Printf("%s: ", fn)
		s.Print(os.Stdout, *verbose)
		if len(s.Problems) > 0 {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
