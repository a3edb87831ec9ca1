package envcheck

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/service"
)

// maxDistance bounds Levenshtein distance of a suggested key.
const maxDistance = 3

type EnvCheck struct {
	log      *slog.Logger
	store    Store
	prefix   string
	required []string
}

type Store interface {
	Lookup(key string) (string, bool)
	Keys(prefix string) []string
}

func New(
	log *slog.Logger,
	store Store,
	prefix string,
	required []string,
) *EnvCheck {
	return &EnvCheck{
		log:      log,
		store:    store,
		prefix:   prefix,
		required: required,
	}
}

// AssertDefined returns ErrNotDefined if key has no value.
// An empty value counts as defined.
func (e *EnvCheck) AssertDefined(key string) error {
	const op = "envcheck.AssertDefined"

	if _, ok := e.store.Lookup(key); !ok {
		return fmt.Errorf("%s: %s: %w", op, key, service.ErrNotDefined)
	}

	return nil
}

// Check verifies every required key.
func (e *EnvCheck) Check() models.CheckResult {
	return e.CheckKeys(e.required)
}

// CheckKeys verifies given keys and suggests
// similar names for missing ones.
func (e *EnvCheck) CheckKeys(keys []string) models.CheckResult {
	const op = "envcheck.CheckKeys"

	log := e.log.With(
		slog.String("op", op),
	)

	res := models.CheckResult{
		Defined: []string{},
		Missing: []string{},
	}

	var known []string

	for _, key := range keys {
		if err := e.AssertDefined(key); err == nil {
			res.Defined = append(res.Defined, key)
			continue
		}

		res.Missing = append(res.Missing, key)

		if known == nil {
			known = e.store.Keys(e.prefix)
		}
		if s := suggest(key, known); len(s) > 0 {
			if res.Suggestions == nil {
				res.Suggestions = make(map[string][]string)
			}
			res.Suggestions[key] = s
		}

		log.Warn("required variable is not defined",
			slog.String("key", key),
			slog.Any("suggestions", res.Suggestions[key]),
		)
	}

	return res
}

type rankedKey struct {
	key  string
	rank int
}

// suggest returns known keys close to target, closest first.
func suggest(target string, known []string) []string {
	caser := cases.Upper(language.Und)
	norm := caser.String(strings.TrimSpace(target))

	ranked := make([]rankedKey, 0)
	for _, k := range known {
		if k == target {
			continue
		}
		d := fuzzy.LevenshteinDistance(norm, caser.String(k))
		if d <= maxDistance {
			ranked = append(ranked, rankedKey{key: k, rank: d})
		}
	}

	slices.SortStableFunc(ranked, func(a, b rankedKey) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return strings.Compare(a.key, b.key)
	})

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.key)
	}

	return out
}
