package ioserve

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/permaguild/guilddb/internal/ioplants"
	"github.com/permaguild/guilddb/pkg/explain"
	"github.com/permaguild/guilddb/pkg/recommend"
	"github.com/permaguild/guilddb/pkg/score"
)

// service carries the shared handles into the request handlers.
type service struct {
	h *Handles
}

// scoreGuildRequest is the body of POST /api/score-guild.
type scoreGuildRequest struct {
	PlantIDs []string `json:"plant_ids"`
}

// scoreGuildResponse inlines the scorer result and adds the
// gardener-facing explanation.
type scoreGuildResponse struct {
	Success bool `json:"success"`
	*score.Result
	Explanation explain.Explanation `json:"explanation"`
	PlantNames  map[string]string   `json:"plant_names"`
}

// POST /api/score-guild
func (s *service) scoreGuild(c *gin.Context) {
	var req scoreGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if n := len(req.PlantIDs); n < score.MinMembers || n > score.MaxMembers {
		respondError(c, http.StatusBadRequest, "invalid_guild_size",
			fmt.Errorf("a guild takes %d to %d plants, got %d",
				score.MinMembers, score.MaxMembers, n))
		return
	}

	members, err := s.h.Store.Members(c.Request.Context(), req.PlantIDs)
	if err != nil {
		var unknown *ioplants.UnknownPlantsError
		if errors.As(err, &unknown) {
			respondError(c, http.StatusBadRequest, "unknown_plants", err)
			return
		}
		respondError(c, http.StatusInternalServerError,
			"load_members_failed", err)
		return
	}
	ioplants.AttachVectors(members, s.h.Embedding)

	res, err := s.h.Scorer.Score(members)
	if err != nil {
		var input *score.InputError
		if errors.As(err, &input) {
			respondError(c, http.StatusBadRequest, "invalid_guild", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "score_failed", err)
		return
	}

	names := plantNames(members)
	respondOK(c, scoreGuildResponse{
		Success:     true,
		Result:      res,
		Explanation: explain.Describe(res, names),
		PlantNames:  names,
	})
}

// recommendRequest is the body of POST /api/recommend. Candidates
// default to the embedding roster, k to the recommender's top-k.
type recommendRequest struct {
	Guild      []string `json:"guild"`
	Candidates []string `json:"candidates"`
	K          int      `json:"k"`
	Strategy   string   `json:"strategy"`
}

type recommendResponse struct {
	Strategy recommend.Strategy         `json:"strategy"`
	Pool     int                        `json:"pool"`
	Ranked   []recommend.Recommendation `json:"ranked"`
}

// POST /api/recommend
func (s *service) recommendPlants(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	strategy, err := recommend.ParseStrategy(req.Strategy)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_strategy", err)
		return
	}
	if req.K == 0 {
		req.K = recommend.DefaultTopK
	}
	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = s.h.Oracle.Roster()
	}

	ranked, err := recommend.Recommend(
		s.h.Oracle, req.Guild, candidates, req.K, strategy,
	)
	if err != nil {
		var unknown *recommend.UnknownIDsError
		if errors.As(err, &unknown) {
			respondError(c, http.StatusBadRequest, "unknown_plants", err)
			return
		}
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	respondOK(c, recommendResponse{
		Strategy: strategy,
		Pool:     len(candidates),
		Ranked:   ranked,
	})
}

// GET /api/pair/:a/:b
func (s *service) pairScore(c *gin.Context) {
	a, b := c.Param("a"), c.Param("b")
	if a == b {
		respondError(c, http.StatusBadRequest, "invalid_pair",
			fmt.Errorf("a pair needs two different plants"))
		return
	}
	ctx := c.Request.Context()

	cached, ok, err := s.h.Store.CachedPair(ctx, a, b)
	if err != nil {
		respondError(c, http.StatusInternalServerError,
			"load_pair_failed", err)
		return
	}
	if ok {
		respondOK(c, cached)
		return
	}

	// Cache miss; score the pair live from the same inputs the batch
	// run reads.
	ids := []string{a, b}
	members, err := s.h.Store.Members(ctx, ids)
	if err != nil {
		var unknown *ioplants.UnknownPlantsError
		if errors.As(err, &unknown) {
			respondError(c, http.StatusNotFound, "unknown_plants", err)
			return
		}
		respondError(c, http.StatusInternalServerError,
			"load_members_failed", err)
		return
	}
	benefits, err := s.h.Store.Benefits(ctx, ids)
	if err != nil {
		respondError(c, http.StatusInternalServerError,
			"load_benefits_failed", err)
		return
	}

	res := score.PairScore(
		members[0], members[1], benefits[a][b], benefits[b][a],
	)
	respondOK(c, res)
}

type searchResponse struct {
	Query  string             `json:"query"`
	Count  int                `json:"count"`
	Plants []ioplants.Summary `json:"plants"`
}

// GET /api/plants/search?q=&limit=
func (s *service) searchPlants(c *gin.Context) {
	var limit int
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = l
	}

	query := c.Query("q")
	plants, err := s.h.Store.Search(c.Request.Context(), query, limit)
	if err != nil {
		var short *ioplants.QueryTooShortError
		if errors.As(err, &short) {
			respondError(c, http.StatusBadRequest, "query_too_short", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}
	if plants == nil {
		plants = []ioplants.Summary{}
	}

	respondOK(c, searchResponse{
		Query:  query,
		Count:  len(plants),
		Plants: plants,
	})
}

// GET /api/plant/:id
func (s *service) plantDetails(c *gin.Context) {
	p, err := s.h.Store.Plant(c.Request.Context(), c.Param("id"))
	if err != nil {
		var unknown *ioplants.UnknownPlantsError
		if errors.As(err, &unknown) {
			respondError(c, http.StatusNotFound, "plant_not_found", err)
			return
		}
		respondError(c, http.StatusInternalServerError,
			"load_plant_failed", err)
		return
	}
	respondOK(c, p)
}

// GET /ping
func ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func plantNames(members []score.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.Traits.ID] = m.Traits.Name
	}
	return names
}
