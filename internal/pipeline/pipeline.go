package pipeline

import (
	"context"
	"fmt"

	"log-sentinel/internal/detect"
	"log-sentinel/internal/ingest"
	"log-sentinel/internal/metrics"
	"log-sentinel/internal/output"
	"log-sentinel/internal/parser"

	"go.uber.org/zap"
)

// Pipeline moves one line at a time from the source through the parser and
// the engine, then hands each alert to every sink in order.
type Pipeline struct {
	source ingest.Source
	parser parser.Parser
	engine *detect.Engine
	sinks  []output.Sink
	logger *zap.Logger
}

func New(source ingest.Source, p parser.Parser, engine *detect.Engine, logger *zap.Logger, sinks ...output.Sink) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		source: source,
		parser: p,
		engine: engine,
		sinks:  sinks,
		logger: logger,
	}
}

// Run processes lines until the source is exhausted (nil), ctx is done
// (ctx.Err()), or a read or sink failure occurs.
func (p *Pipeline) Run(ctx context.Context) error {
	var lines, alerts int
	defer func() {
		p.logger.Debug("Pipeline stopped", zap.Int("lines", lines), zap.Int("alerts", alerts))
	}()

	for {
		line, err := p.source.Next(ctx)
		if err != nil {
			if ingest.IsEnd(err) {
				return nil
			}
			return err
		}
		lines++
		metrics.LinesRead.Inc()

		evt := p.parser.Parse(line)
		if evt == nil {
			continue
		}
		metrics.EventsProcessed.Inc()

		for _, a := range p.engine.Process(evt) {
			alerts++
			metrics.AlertsGenerated.WithLabelValues(a.RuleID, a.Severity.String()).Inc()
			for _, sink := range p.sinks {
				if err := sink.Emit(a); err != nil {
					return fmt.Errorf("failed to emit %s alert: %w", a.RuleID, err)
				}
			}
		}
	}
}
