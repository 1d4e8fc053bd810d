// Package ioplants reads plants and their interaction context from
// PostgreSQL in the shapes the scorer, the recommender and the serving
// API consume. The store only reads; the tables it queries are written
// by the import and pipeline packages.
package ioplants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/score"
)

// MinQueryLen is the shortest search query Search accepts.
const MinQueryLen = 3

// DefaultSearchLimit caps Search results when the caller passes no
// limit.
const DefaultSearchLimit = 20

// Store loads scoring inputs and plant summaries. Implementations are
// safe for concurrent use once the underlying connection pool exists.
type Store interface {
	// Members loads fully populated scorer members for ids, in the
	// order requested. Traits come from the plants table, organism
	// lists from organism_profiles and fungal genera from
	// fungal_guilds. Ids absent from the plants table abort with an
	// UnknownPlantsError. Embedding vectors are not loaded here;
	// callers holding an embedding attach them.
	Members(ctx context.Context, ids []string) ([]score.Member, error)

	// Roster returns the sorted ids of all plants carrying at least
	// one organism profile row. This is the candidate universe for
	// pair-score caching and benefit lookups.
	Roster(ctx context.Context) ([]string, error)

	// Web loads the full natural-enemy web from organism_enemies,
	// keyed the way the scorer matches it.
	Web(ctx context.Context) (score.Web, error)

	// Benefits loads mined biological-control entries between the
	// given plants, keyed helper id then helped id. With no ids it
	// loads every mined pair.
	Benefits(ctx context.Context, ids []string) (map[string]map[string]biocontrol.Benefit, error)

	// CachedPair returns the cached compatibility entry for the
	// unordered pair (a, b), or ok false when the cache holds no row
	// for it.
	CachedPair(ctx context.Context, a, b string) (*score.PairResult, bool, error)

	// Search finds plants whose scientific name or genus contains the
	// query, case-insensitively, ordered by scientific name. Queries
	// shorter than MinQueryLen abort with a QueryTooShortError. A
	// limit below 1 means DefaultSearchLimit.
	Search(ctx context.Context, query string, limit int) ([]Summary, error)

	// Plant returns the summary row for one plant id, or an
	// UnknownPlantsError when the id is not part of the flora.
	Plant(ctx context.Context, id string) (*Summary, error)
}

// UnknownPlantsError lists requested ids absent from the plants table.
type UnknownPlantsError struct {
	IDs []string
}

func (e *UnknownPlantsError) Error() string {
	return fmt.Sprintf(
		"plants missing from the flora: %s",
		strings.Join(e.IDs, ", "),
	)
}

// QueryTooShortError reports a search query below MinQueryLen
// characters.
type QueryTooShortError struct {
	Query string
}

func (e *QueryTooShortError) Error() string {
	return fmt.Sprintf(
		"search query %q is shorter than %d characters",
		e.Query, MinQueryLen,
	)
}

type store struct {
	operator db.Operator
}

// New creates a Store reading through the operator's connection pool.
func New(op db.Operator) Store {
	return &store{operator: op}
}

func (s *store) pool() (*pgxpool.Pool, error) {
	pool := s.operator.Pool()
	if pool == nil {
		return nil, errors.New("no database connection")
	}
	return pool, nil
}
