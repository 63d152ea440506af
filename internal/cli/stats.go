package cli

import (
	"fmt"
	"sync"

	"github.com/vburojevic/demostats/internal/batch"
	"github.com/vburojevic/demostats/internal/demo"
	"github.com/vburojevic/demostats/internal/domain"
	"github.com/vburojevic/demostats/internal/filter"
	"github.com/vburojevic/demostats/internal/output"
	"github.com/vburojevic/demostats/internal/stats"
)

// StatsCmd reports statistics for each demo given on the command line
type StatsCmd struct {
	Demos        []string `arg:"" name:"demo" help:"Demo files to analyse, in order"`
	Where        []string `short:"w" sep:"none" help:"Only report demos matching field<op>value (e.g., 'map~e1m', 'kills>=10'); repeatable"`
	Dedupe       bool     `help:"Report each distinct demo content once"`
	MaxBlockSize int      `default:"${config_max_block_size}" help:"Largest accepted block payload in bytes"`
}

// Run executes the stats command. Per-demo failures are reported in the
// output and never fail the command.
func (c *StatsCmd) Run(globals *Globals) error {
	if err := validateFlags(globals); err != nil {
		return err
	}
	pipeline, err := buildPipeline(globals, c.Where, c.Dedupe)
	if err != nil {
		return err
	}
	w, err := output.New(globals.Format, globals.Stdout)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_FLAGS", err.Error())
	}

	p := newProcessor(globals, w, pipeline, c.MaxBlockSize)
	defer p.log.Sync()
	for _, path := range c.Demos {
		if err := p.Process(path); err != nil {
			return err
		}
	}
	return p.Close()
}

// processor turns demo files into writer output. It is shared by the stats
// and watch commands so both report a file identically.
type processor struct {
	mu           sync.Mutex
	globals      *Globals
	writer       output.Writer
	pipeline     *filter.Pipeline
	tracker      *batch.Tracker
	log          *demoLogger
	maxBlockSize int
	closed       bool
}

func newProcessor(globals *Globals, w output.Writer, pipeline *filter.Pipeline, maxBlockSize int) *processor {
	if maxBlockSize <= 0 && globals.Config != nil {
		maxBlockSize = globals.Config.Defaults.MaxBlockSize
	}
	return &processor{
		globals:      globals,
		writer:       w,
		pipeline:     pipeline,
		tracker:      batch.NewTracker(),
		log:          newDemoLogger(globals),
		maxBlockSize: maxBlockSize,
	}
}

// Process reads, analyses and reports one demo. The returned error is a
// write failure on the output; demo failures are reported, not returned.
// Demos arriving after Close are ignored.
func (p *processor) Process(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := p.log.With(path)
	if p.closed {
		log.Debug("batch already closed, not reported")
		return nil
	}

	d, err := demo.Read(demo.ReadOptions{Filename: path, MaxBlockSize: p.maxBlockSize})
	if err != nil {
		log.Debug("read failed: code=%s err=%v", demo.CodeOf(err), err)
		return p.fail(domain.CodeOpenFailed, path, err)
	}
	log.Debug("read %d blocks, %d messages, protocol %d", len(d.Blocks), d.MessageCount(), d.Protocol)

	s, err := stats.Extract(d)
	if err != nil {
		log.Debug("extraction failed: %v", err)
		return p.fail(domain.CodeDecodeFailed, path, err)
	}

	r := domain.NewDemoReport(path, d.Protocol, len(d.Blocks), d.Digest, s)
	switch p.pipeline.Check(r) {
	case filter.DropWhere:
		log.Debug("dropped by where clause")
		p.tracker.Skip()
		return nil
	case filter.DropDuplicate:
		log.Debug("dropped as duplicate of digest %s", r.Digest)
		p.tracker.Skip()
		return nil
	}

	p.tracker.Add(r)
	return p.writer.WriteReport(r)
}

func (p *processor) fail(code, path string, err error) error {
	p.tracker.Fail()
	if p.globals.Quiet {
		return nil
	}
	return p.writer.WriteFailure(domain.NewDemoFailure(code, path, err.Error()))
}

// Notice reports a non-demo event such as a watch banner or warning. It
// goes through the processor so it never interleaves with a report.
// ndjson gets an info record; other formats print text to stderr unless
// text is empty.
func (p *processor) Notice(message string, fields map[string]interface{}, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.globals.Quiet {
		return
	}
	if nw, ok := p.writer.(*output.NDJSONWriter); ok {
		if err := nw.WriteInfo(message, fields); err != nil {
			p.log.Debug("notice not written: %v", err)
		}
		return
	}
	if text != "" {
		fmt.Fprintln(p.globals.Stderr, text)
	}
}

// Close flushes the writer with the batch summary. Later calls do nothing.
func (p *processor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	summary := p.tracker.Summary()
	summary.Duplicates = p.pipeline.Duplicates()
	return p.writer.Close(summary)
}
