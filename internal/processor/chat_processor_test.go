package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"

	"shenanigigs/statistics/internal/config"
	"shenanigigs/statistics/internal/errors"
	"shenanigigs/statistics/internal/parser"
)

const footer = config.DefaultFooter + "\nhttps://chat.example.com/invite\n"

func posting(date, title string, lines ...string) string {
	return date + ", 9:30 am - +961 3 123 456: 👨‍💻 " + title + "\n\n" +
		strings.Join(lines, "\n") + "\n" + footer
}

type fixture struct {
	processor *ChatProcessor
	recorder  *tracetest.SpanRecorder
	stdout    *bytes.Buffer
	dir       string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	cfg := &config.Config{}
	cfg.Segmenter.Footer = config.DefaultFooter
	cfg.Segmenter.Marker = config.DefaultMarker

	stdout := &bytes.Buffer{}
	return &fixture{
		processor: NewChatProcessor(zaptest.NewLogger(t), provider.Tracer("test"), parser.NewSegmenter(cfg), stdout),
		recorder:  recorder,
		stdout:    stdout,
		dir:       t.TempDir(),
	}
}

func (f *fixture) writeChat(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("02/01/2006", s)
	require.NoError(t, err)
	return d
}

type tallyJSON struct {
	Data  map[string]int `json:"data"`
	Count int            `json:"count"`
}

func readReport(t *testing.T, path string) map[string]tallyJSON {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]tallyJSON
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestRun_SinglePosting(t *testing.T) {
	f := newFixture(t)
	input := f.writeChat(t, posting("15/03/2024", "Senior Backend Engineer:",
		"📍 Location: Remote",
		"🔹 Languages: Python, Go",
	))
	output := filepath.Join(f.dir, "output.json")

	err := f.processor.Run(context.Background(), Options{
		InputPath:  input,
		OutputPath: output,
		Start:      date(t, "01/01/2024"),
		End:        date(t, "31/12/2024"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Parsed 1 job postings\n", f.stdout.String())

	got := readReport(t, output)
	assert.Equal(t, map[string]int{"python": 1, "go": 1}, got["programming_languages"].Data)
	assert.Equal(t, 2, got["programming_languages"].Count)
	assert.Equal(t, map[string]int{"Remote": 1}, got["locations"].Data)
	assert.Equal(t, map[string]int{"Senior": 1}, got["seniority"].Data)
	assert.Equal(t, map[string]int{"Backend": 1}, got["titles"].Data)
	assert.Empty(t, got["programming_frameworks"].Data)
	for key, tally := range got {
		sum := 0
		for _, n := range tally.Data {
			sum += n
		}
		assert.Equal(t, sum, tally.Count, key)
	}
}

func TestProcess_InclusiveRange(t *testing.T) {
	f := newFixture(t)
	input := f.writeChat(t,
		posting("31/12/2023", "Junior Frontend Developer:")+
			posting("01/01/2024", "Junior Frontend Developer:")+
			posting("31/12/2024", "Senior Backend Engineer:")+
			posting("01/01/2025", "Senior Backend Engineer:"))

	result, err := f.processor.Process(context.Background(), Options{
		InputPath: input,
		Start:     date(t, "01/01/2024"),
		End:       date(t, "31/12/2024"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Postings)
	assert.Equal(t, map[string]int{"Frontend": 1, "Backend": 1}, result.Titles.Map())
}

func TestProcess_RecordsStageSpans(t *testing.T) {
	f := newFixture(t)
	input := f.writeChat(t, posting("15/03/2024", "Senior Backend Engineer:"))

	_, err := f.processor.Process(context.Background(), Options{
		InputPath: input,
		Start:     date(t, "01/01/2024"),
		End:       date(t, "31/12/2024"),
	})
	require.NoError(t, err)

	var names []string
	for _, span := range f.recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{"Segment", "Extract", "Filter", "Aggregate", "ChatProcessor.Process"}, names)
}

func TestProcess_TagsExtractSpanWithPostingIDs(t *testing.T) {
	f := newFixture(t)
	chat := posting("15/03/2024", "Senior Backend Engineer:") +
		posting("16/03/2024", "Junior Frontend Developer:")
	input := f.writeChat(t, chat)

	_, err := f.processor.Process(context.Background(), Options{
		InputPath: input,
		Start:     date(t, "01/01/2024"),
		End:       date(t, "31/12/2024"),
	})
	require.NoError(t, err)

	extracted, err := parser.ExtractAll(parser.Segment(chat))
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	var ids []string
	for _, span := range f.recorder.Ended() {
		if span.Name() != "Extract" {
			continue
		}
		for _, attr := range span.Attributes() {
			if attr.Key == "postings.ids" {
				ids = attr.Value.AsStringSlice()
			}
		}
	}
	assert.Equal(t, []string{extracted[0].ID, extracted[1].ID}, ids)
}

func TestRun_MissingInput(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, "output.json")

	err := f.processor.Run(context.Background(), Options{
		InputPath:  filepath.Join(f.dir, "nope.txt"),
		OutputPath: output,
		Start:      date(t, "01/01/2024"),
		End:        date(t, "31/12/2024"),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeNotFound, errors.TypeOf(err))
	assert.NoFileExists(t, output)
	assert.Empty(t, f.stdout.String())
}

func TestRun_ExtractionFailureLeavesOutputUntouched(t *testing.T) {
	f := newFixture(t)
	input := f.writeChat(t,
		posting("15/03/2024", "Senior Backend Engineer:")+
			"👨‍💻 Weekly digest, no header\n"+footer)
	output := filepath.Join(f.dir, "output.json")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0o644))

	err := f.processor.Run(context.Background(), Options{
		InputPath:  input,
		OutputPath: output,
		Start:      date(t, "01/01/2024"),
		End:        date(t, "31/12/2024"),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeExtraction, errors.TypeOf(err))

	data, readErr := os.ReadFile(output)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(data))
	assert.Empty(t, f.stdout.String())
}

func TestRun_InvalidPostingDate(t *testing.T) {
	f := newFixture(t)
	input := f.writeChat(t, posting("31/02/2024", "Senior Backend Engineer:"))
	output := filepath.Join(f.dir, "output.json")

	err := f.processor.Run(context.Background(), Options{
		InputPath:  input,
		OutputPath: output,
		Start:      date(t, "01/01/2024"),
		End:        date(t, "31/12/2024"),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeInvalidDate, errors.TypeOf(err))
	assert.NoFileExists(t, output)
}

func TestRun_NoPostings(t *testing.T) {
	f := newFixture(t)
	input := f.writeChat(t, "01/01/2024, 9:00 am - +1 555: hello\n")
	output := filepath.Join(f.dir, "output.json")

	err := f.processor.Run(context.Background(), Options{
		InputPath:  input,
		OutputPath: output,
		Start:      date(t, "01/01/2024"),
		End:        date(t, "31/12/2024"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Parsed 0 job postings\n", f.stdout.String())

	got := readReport(t, output)
	assert.Len(t, got, 5)
	assert.Zero(t, got["titles"].Count)
}
