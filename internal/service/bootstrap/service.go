package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/joho/godotenv"

	"github.com/GintGld/chat-envboot/internal/lib/logger/sl"
	"github.com/GintGld/chat-envboot/internal/models"
)

var errNotText = errors.New("definition file is not a text file")

type Bootstrap struct {
	log      *slog.Logger
	store    Store
	prefix   string
	recorder RunRecorder
	metrics  *Metrics
}

// Store receives propagated keys.
type Store interface {
	Set(key, value string) error
}

// RunRecorder persists reports. Optional.
type RunRecorder interface {
	SaveRun(ctx context.Context, report models.Report) (int64, error)
}

func New(
	log *slog.Logger,
	store Store,
	prefix string,
	recorder RunRecorder,
	metrics *Metrics,
) *Bootstrap {
	if prefix == "" {
		prefix = models.DefaultPrefix
	}

	return &Bootstrap{
		log:      log,
		store:    store,
		prefix:   prefix,
		recorder: recorder,
		metrics:  metrics,
	}
}

// Bootstrap copies prefixed keys from definition file at path into the store.
// It never fails: a missing or malformed file results in fewer
// or no keys propagated and a log record.
func (b *Bootstrap) Bootstrap(ctx context.Context, path string) (report models.Report) {
	const op = "bootstrap.Bootstrap"

	log := b.log.With(
		slog.String("op", op),
		slog.String("path", path),
	)

	report = models.Report{
		Path:       path,
		Propagated: []string{},
		Skipped:    []string{},
		CreatedAt:  time.Now(),
	}
	st := stats{}

	defer func() {
		st.found = report.Found
		st.propagated = len(report.Propagated)
		st.skipped = len(report.Skipped)
		b.metrics.observe(st)
		b.record(ctx, log, &report)
	}()

	if info, err := os.Stat(path); err != nil || info.IsDir() {
		log.Warn(".env file not found at expected path")
		return
	}

	// File is read in one go, no handle outlives this call.
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("failed to read .env file", sl.Err(err))
		return
	}
	report.Found = true

	parsed, err := parse(data)
	if err != nil {
		st.malformed = true
		log.Warn("malformed .env file, nothing to propagate", sl.Err(err))
		return
	}

	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !strings.HasPrefix(key, b.prefix) {
			report.Skipped = append(report.Skipped, key)
			continue
		}

		if err := b.store.Set(key, parsed[key]); err != nil {
			log.Warn("failed to set variable", slog.String("key", key), sl.Err(err))
			continue
		}
		report.Propagated = append(report.Propagated, key)
	}

	if len(report.Propagated) > 0 {
		log.Info("loaded environment variables from .env",
			slog.String("prefix", b.prefix),
			slog.Int("count", len(report.Propagated)),
		)
	} else {
		log.Debug("no prefixed variables in .env", slog.String("prefix", b.prefix))
	}

	return
}

func (b *Bootstrap) record(ctx context.Context, log *slog.Logger, report *models.Report) {
	if b.recorder == nil {
		return
	}

	id, err := b.recorder.SaveRun(ctx, *report)
	if err != nil {
		log.Error("failed to save run", sl.Err(err))
		return
	}
	report.ID = id
}

func parse(data []byte) (map[string]string, error) {
	const op = "bootstrap.parse"

	if len(data) == 0 {
		return map[string]string{}, nil
	}

	if !isText(data) {
		return nil, fmt.Errorf("%s: %w (%s)", op, errNotText, mimetype.Detect(data))
	}

	parsed, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return parsed, nil
}

// isText reports whether data can be a definition file.
// Keys may start with magic prefixes (MZ, BM, ID3), so content is checked
// instead of a file signature.
func isText(data []byte) bool {
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}
