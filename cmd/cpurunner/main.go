// Command cpurunner runs a test ROM without video and watches the serial
// port for a pass or fail verdict.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbemu/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbemu/internal/emu"
	"github.com/sirupsen/logrus"
)

// writerFunc adapts a function to io.Writer
type writerFunc func(p []byte) (n int, err error)

func (f writerFunc) Write(p []byte) (n int, err error) { return f(p) }

// ring keeps the last n entries appended to it.
type ring[T any] struct {
	buf  []T
	next int
	fill int
}

func newRing[T any](n int) *ring[T] { return &ring[T]{buf: make([]T, max(n, 1))} }

func (r *ring[T]) add(v T) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
	r.fill = min(r.fill+1, len(r.buf))
}

// items returns the entries oldest first.
func (r *ring[T]) items() []T {
	out := make([]T, 0, r.fill)
	start := (r.next - r.fill + len(r.buf)) % len(r.buf)
	for i := 0; i < r.fill; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

var (
	// failure summary: "Failed <n> tests"
	failRe = regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)
	// test markers like "11:01"
	stageRe = regexp.MustCompile(`\b(\d{2}:\d{2})\b`)
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	startPC := flag.Int("pc", 0x0100, "initial PC value without a boot ROM")
	trace := flag.Bool("trace", false, "log every instruction")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	auto := flag.Bool("auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceOnFail := flag.Bool("traceOnFail", false, "when -auto detects failure, print a recent trace window (slows down)")
	traceWindow := flag.Int("traceWindow", 200, "number of recent instructions to include in 'traceOnFail' dump")
	serialWindow := flag.Int("serialWindow", 8192, "number of recent serial bytes to retain for diagnostics on fail")
	flag.Parse()

	log, _ := emu.NewLogger("info")
	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	m := emu.New(emu.Config{Trace: *trace, Logger: log})
	if *trace {
		log.SetLevel(logrus.TraceLevel)
	}
	if *bootPath != "" {
		boot, err := os.ReadFile(*bootPath)
		if err != nil {
			log.WithError(err).Fatal("read bootrom")
		}
		m.SetBootROM(boot)
	}

	// Stream serial to stdout and capture in-memory for pattern detection
	var ser bytes.Buffer
	serRing := newRing[byte](max(*serialWindow, 256))
	m.SetSerialWriter(io.MultiWriter(os.Stdout, &ser, writerFunc(func(p []byte) (int, error) {
		for _, ch := range p {
			serRing.add(ch)
		}
		return len(p), nil
	})))

	if err := m.LoadROMFromFile(*romPath); err != nil {
		log.WithError(err).Fatal("load rom")
	}
	if !m.HasBootROM() {
		m.CPU().SetPC(uint16(*startPC))
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	done := func(step int) {
		log.WithFields(logrus.Fields{
			"steps":   step,
			"cycles":  m.Clock(),
			"elapsed": time.Since(start).Truncate(time.Millisecond),
		}).Info("done")
	}

	traces := newRing[string](*traceWindow)
	lastStage := ""
	seen := 0
	for i := 0; i < *steps; i++ {
		if *traceOnFail {
			traces.add(m.DumpRegisters())
		}
		if _, err := m.StepInstruction(); err != nil {
			log.Error(m.DumpRegisters())
			if errors.Is(err, cpu.ErrUndefinedOpcode) {
				log.WithError(err).Error("undefined opcode")
			} else {
				log.WithError(err).Error("cpu stopped")
			}
			done(i + 1)
			os.Exit(1)
		}
		// only rescan when new serial bytes arrived
		if ser.Len() != seen {
			seen = ser.Len()
			s := ser.String()
			lower := strings.ToLower(s)
			if *auto {
				if mm := stageRe.FindAllString(s, -1); len(mm) > 0 {
					lastStage = mm[len(mm)-1]
				}
				if strings.Contains(lower, "passed") {
					log.WithField("stage", lastStage).Info("detected PASS in serial output")
					done(i + 1)
					os.Exit(0)
				}
				if sub := failRe.FindStringSubmatch(s); sub != nil {
					log.WithField("stage", lastStage).Errorf("detected %s in serial output", sub[0])
					if *traceOnFail {
						dumpTrace(traces.items())
					}
					dumpSerial(serRing.items())
					done(i + 1)
					os.Exit(1)
				}
			} else if *until != "" && strings.Contains(lower, strings.ToLower(*until)) {
				log.Infof("detected '%s' in serial output", *until)
				done(i + 1)
				return
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			log.Errorf("timeout after %s", time.Since(start).Truncate(time.Millisecond))
			done(i + 1)
			os.Exit(2)
		}
	}
	done(*steps)
}

func dumpTrace(lines []string) {
	fmt.Printf("\n--- recent trace (last %d instructions) ---\n", len(lines))
	for _, l := range lines {
		fmt.Println(l)
	}
	fmt.Printf("--- end trace ---\n")
}

func dumpSerial(data []byte) {
	if len(data) == 0 {
		return
	}
	fmt.Printf("\n--- recent serial (last %d bytes) ---\n%s\n--- end serial ---\n", len(data), data)
}
