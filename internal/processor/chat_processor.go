package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shenanigigs/statistics/internal/aggregator"
	"shenanigigs/statistics/internal/errors"
	"shenanigigs/statistics/internal/filter"
	"shenanigigs/statistics/internal/models"
	"shenanigigs/statistics/internal/parser"
	"shenanigigs/statistics/internal/report"
	"shenanigigs/statistics/internal/telemetry"
)

type Options struct {
	InputPath  string
	OutputPath string
	Start      time.Time
	End        time.Time
}

type ChatProcessor struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	segmenter *parser.Segmenter
	stdout    io.Writer
}

func NewChatProcessor(logger *zap.Logger, tracer trace.Tracer, segmenter *parser.Segmenter, stdout io.Writer) *ChatProcessor {
	return &ChatProcessor{
		logger:    logger,
		tracer:    tracer,
		segmenter: segmenter,
		stdout:    stdout,
	}
}

// Run processes the chat export and writes the report. Nothing is written
// when any stage fails.
func (p *ChatProcessor) Run(ctx context.Context, opts Options) error {
	ctx, span := p.tracer.Start(ctx, "ChatProcessor.Run")
	defer span.End()

	result, err := p.Process(ctx, opts)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := report.Write(opts.OutputPath, result); err != nil {
		span.RecordError(err)
		p.logger.Error("Failed to write report", zap.String("output", opts.OutputPath), zap.Error(err))
		return fmt.Errorf("write report: %w", err)
	}
	p.logger.Info("Report written", zap.String("output", opts.OutputPath))

	fmt.Fprintf(p.stdout, "Parsed %d job postings\n", result.Postings)
	return nil
}

func (p *ChatProcessor) Process(ctx context.Context, opts Options) (models.Report, error) {
	ctx, span := p.tracer.Start(ctx, "ChatProcessor.Process")
	defer span.End()
	span.SetAttributes(telemetry.String("input.path", opts.InputPath))

	chat, err := os.ReadFile(opts.InputPath)
	if err != nil {
		span.RecordError(err)
		if os.IsNotExist(err) {
			return models.Report{}, errors.NotFound("File does not exist", err)
		}
		return models.Report{}, errors.Internal("reading chat export", err)
	}

	messages := p.segment(ctx, string(chat))

	postings, err := p.extract(ctx, messages)
	if err != nil {
		span.RecordError(err)
		return models.Report{}, err
	}

	filtered, err := p.filter(ctx, postings, opts.Start, opts.End)
	if err != nil {
		span.RecordError(err)
		return models.Report{}, err
	}

	return p.aggregate(ctx, filtered), nil
}

func (p *ChatProcessor) segment(ctx context.Context, chat string) []string {
	_, span := p.tracer.Start(ctx, "Segment")
	defer span.End()

	messages := p.segmenter.Segment(chat)
	span.SetAttributes(
		telemetry.Int("chat.size", len(chat)),
		telemetry.Int("messages.count", len(messages)),
	)
	p.logger.Debug("Segmented chat export", zap.Int("messages", len(messages)))
	return messages
}

func (p *ChatProcessor) extract(ctx context.Context, messages []string) ([]*models.JobPosting, error) {
	_, span := p.tracer.Start(ctx, "Extract")
	defer span.End()

	postings, err := parser.ExtractAll(messages)
	if err != nil {
		span.RecordError(err)
		p.logger.Error("Failed to extract job posting", zap.Error(err))
		return nil, fmt.Errorf("extract postings: %w", err)
	}
	ids := make([]string, 0, len(postings))
	for _, posting := range postings {
		ids = append(ids, posting.ID)
		p.logger.Debug("Extracted job posting",
			zap.String("id", posting.ID),
			zap.String("date", posting.Date),
			zap.String("role", posting.Title.Role))
	}

	span.SetAttributes(
		telemetry.Int("postings.count", len(postings)),
		telemetry.Strings("postings.ids", ids),
	)
	return postings, nil
}

func (p *ChatProcessor) filter(ctx context.Context, postings []*models.JobPosting, start, end time.Time) ([]*models.JobPosting, error) {
	_, span := p.tracer.Start(ctx, "Filter")
	defer span.End()

	filtered, err := filter.ByDateRange(postings, start, end)
	if err != nil {
		span.RecordError(err)
		p.logger.Error("Failed to filter job postings", zap.Error(err))
		return nil, fmt.Errorf("filter postings: %w", err)
	}

	span.SetAttributes(telemetry.Int("postings.kept", len(filtered)))
	p.logger.Info("Filtered job postings",
		zap.Int("total", len(postings)),
		zap.Int("kept", len(filtered)),
		zap.String("start", start.Format(filter.DateLayout)),
		zap.String("end", end.Format(filter.DateLayout)))
	return filtered, nil
}

func (p *ChatProcessor) aggregate(ctx context.Context, postings []*models.JobPosting) models.Report {
	_, span := p.tracer.Start(ctx, "Aggregate")
	defer span.End()

	result := aggregator.Build(postings)
	span.SetAttributes(
		telemetry.Int("languages.count", result.Languages.Count),
		telemetry.Int("frameworks.count", result.Frameworks.Count),
		telemetry.Int("locations.count", result.Locations.Count),
		telemetry.Int("titles.count", result.Titles.Count),
		telemetry.Int("seniority.count", result.Seniority.Count),
	)
	return result
}
