package main

import (
	"context"

	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

type Summary struct {
	Total       int
	NonAnsi     int
	Clean       int
	ParseErrors int
}

// Finder routes each view definition to the non-ANSI or the error stream.
type Finder struct {
	logger  *zap.Logger
	checker *Checker
	nonAnsi RecordWriter
	errs    RecordWriter
}

func NewFinder(logger *zap.Logger, checker *Checker, nonAnsi, errs RecordWriter) *Finder {
	return &Finder{
		logger:  logger,
		checker: checker,
		nonAnsi: nonAnsi,
		errs:    errs,
	}
}

// Run loads every record of source and classifies them one by one. Failures
// of a single record are routed to the error stream; the returned error is
// set only when the whole run had to stop. The summary is valid either way.
func (f *Finder) Run(ctx context.Context, source RecordSource) (Summary, error) {
	var summary Summary
	f.logger.Info("Scanning view definitions for non-ansi joins")

	records, err := source.Records(ctx)
	if err != nil {
		return summary, errors.Annotate(err, "load view definitions")
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, errors.Trace(err)
		}
		summary.Total++
		entry, class, err := f.check(rec)
		switch class {
		case NonAnsi:
			f.logger.Warn("NON-ANSI JOIN", zap.String("view_id", entry.ViewID), zap.String("view_path", entry.Path))
			if err := f.nonAnsi.Write(rec.Raw); err != nil {
				return summary, errors.Annotate(err, "write non-ansi record")
			}
			summary.NonAnsi++
		case Clean:
			f.logger.Info("PASS (not non-ansi)", zap.String("view_id", entry.ViewID), zap.String("view_path", entry.Path))
			summary.Clean++
		default:
			f.logger.Error("Error parsing view",
				zap.Int("line", rec.Line),
				zap.String("view_id", entry.ViewID),
				zap.String("sql", entry.SQLDefinition),
				zap.Error(err))
			if err := f.errs.Write(rec.Raw); err != nil {
				return summary, errors.Annotate(err, "write error record")
			}
			summary.ParseErrors++
		}
	}

	if err := f.nonAnsi.Flush(); err != nil {
		return summary, errors.Trace(err)
	}
	if err := f.errs.Flush(); err != nil {
		return summary, errors.Trace(err)
	}
	return summary, nil
}

// check reports malformed records as ParseError.
func (f *Finder) check(rec Record) (ViewEntry, Classification, error) {
	entry, err := rec.Entry()
	if err != nil {
		return entry, ParseError, err
	}
	class, err := f.checker.Check(entry.SQLDefinition)
	return entry, class, err
}

func (f *Finder) LogSummary(s Summary) {
	f.logger.Info("Num queries with non-ansi join", zap.Int("count", s.NonAnsi))
	f.logger.Info("Num queries that failed to parse", zap.Int("count", s.ParseErrors))
	f.logger.Debug("Num queries checked", zap.Int("total", s.Total), zap.Int("clean", s.Clean))
}
