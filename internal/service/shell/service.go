package shell

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/GintGld/chat-envboot/internal/lib/logger/sl"
	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/service"
)

//go:embed templates/index.html
var templates embed.FS

const (
	defaultTitle     = "Chat App"
	defaultCacheSize = 16
	defaultCacheTTL  = 5 * time.Minute
)

// Shell renders the page the front end mounts into.
type Shell struct {
	log    *slog.Logger
	store  Store
	prefix string
	title  string
	tmpl   *template.Template
	cache  *expirable.LRU[string, []byte]
}

type Store interface {
	Lookup(key string) (string, bool)
	Keys(prefix string) []string
}

func New(
	log *slog.Logger,
	store Store,
	prefix string,
	cacheSize int,
	cacheTTL time.Duration,
) *Shell {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	tmpl := template.Must(template.ParseFS(templates, "templates/index.html"))

	return &Shell{
		log:    log,
		store:  store,
		prefix: prefix,
		title:  defaultTitle,
		tmpl:   tmpl,
		cache:  expirable.NewLRU[string, []byte](cacheSize, nil, cacheTTL),
	}
}

// Env returns prefixed variables exposed to the front end.
func (s *Shell) Env() map[string]string {
	out := make(map[string]string)
	for _, k := range s.store.Keys(s.prefix) {
		if v, ok := s.store.Lookup(k); ok {
			out[k] = v
		}
	}
	return out
}

// Render returns html of the application shell.
func (s *Shell) Render() ([]byte, error) {
	const op = "shell.Render"

	env := s.Env()
	key := fingerprint(env)

	if page, ok := s.cache.Get(key); ok {
		return bytes.Clone(page), nil
	}

	var buf bytes.Buffer
	err := s.tmpl.Execute(&buf, struct {
		Title  string
		Env    map[string]string
		Marker string
	}{
		Title:  s.title,
		Env:    env,
		Marker: models.RootMarker,
	})
	if err != nil {
		s.log.Error("failed to render shell", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page := buf.Bytes()
	s.cache.Add(key, page)

	return bytes.Clone(page), nil
}

// AssertRootRendered renders the shell and looks up the root marker.
func (s *Shell) AssertRootRendered() error {
	const op = "shell.AssertRootRendered"

	page, err := s.Render()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return FindRoot(page)
}

// FindRoot checks that html contains exactly one root marker element.
func FindRoot(page []byte) error {
	const op = "shell.FindRoot"

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if doc.Find(models.RootSelector).Length() != 1 {
		return fmt.Errorf("%s: %w", op, service.ErrRootNotRendered)
	}

	return nil
}

func fingerprint(env map[string]string) string {
	h := sha256.New()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\x00", k, env[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
