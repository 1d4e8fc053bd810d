package ioserve

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gnfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permaguild/guilddb/internal/ioplants"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/recommend"
	"github.com/permaguild/guilddb/pkg/score"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeStore serves fixture data through the ioplants.Store interface,
// replicating its error contracts.
type fakeStore struct {
	members   map[string]score.Member
	web       score.Web
	benefits  map[string]map[string]biocontrol.Benefit
	pairs     map[string]*score.PairResult
	summaries []ioplants.Summary
}

func (f *fakeStore) Members(
	_ context.Context, ids []string,
) ([]score.Member, error) {
	var missing []string
	res := make([]score.Member, 0, len(ids))
	for _, id := range ids {
		m, ok := f.members[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		res = append(res, m)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ioplants.UnknownPlantsError{IDs: missing}
	}
	return res, nil
}

func (f *fakeStore) Roster(context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.members))
	for id := range f.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeStore) Web(context.Context) (score.Web, error) {
	return f.web, nil
}

func (f *fakeStore) Benefits(
	context.Context, []string,
) (map[string]map[string]biocontrol.Benefit, error) {
	return f.benefits, nil
}

func (f *fakeStore) CachedPair(
	_ context.Context, a, b string,
) (*score.PairResult, bool, error) {
	if a > b {
		a, b = b, a
	}
	p, ok := f.pairs[a+"|"+b]
	return p, ok, nil
}

func (f *fakeStore) Search(
	_ context.Context, query string, limit int,
) ([]ioplants.Summary, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < ioplants.MinQueryLen {
		return nil, &ioplants.QueryTooShortError{Query: query}
	}
	if limit < 1 {
		limit = ioplants.DefaultSearchLimit
	}
	var res []ioplants.Summary
	for _, s := range f.summaries {
		if len(res) == limit {
			break
		}
		name := strings.ToLower(s.ScientificName)
		genus := strings.ToLower(s.Genus)
		q := strings.ToLower(query)
		if strings.Contains(name, q) || strings.Contains(genus, q) {
			res = append(res, s)
		}
	}
	return res, nil
}

func (f *fakeStore) Plant(
	_ context.Context, id string,
) (*ioplants.Summary, error) {
	for _, s := range f.summaries {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, &ioplants.UnknownPlantsError{IDs: []string{id}}
}

func testMember(id, name string, pollinators ...string) score.Member {
	t := score.NewTraits(id)
	t.Name = name
	return score.Member{Traits: t, Pollinators: pollinators}
}

// testHandles embeds four plants at the corners of the unit square,
// with store fixtures for the first two.
func testHandles(t *testing.T) *Handles {
	t.Helper()

	data := []float32{0, 0, 1, 0, 1, 1, 0, 1}
	ids := []string{"wfo-a", "wfo-b", "wfo-c", "wfo-d"}
	emb, err := artifact.NewEmbedding(ids, "fp", data, 2, 0.01, 0.99, 100)
	require.NoError(t, err)

	store := &fakeStore{
		members: map[string]score.Member{
			"wfo-a": testMember("wfo-a", "Acer campestre", "Apis mellifera"),
			"wfo-b": testMember("wfo-b", "Trifolium repens",
				"Apis mellifera", "Bombus terrestris"),
		},
		benefits: map[string]map[string]biocontrol.Benefit{
			"wfo-a": {
				"wfo-b": {
					PlantA:        "wfo-a",
					PlantB:        "wfo-b",
					PredatorCount: 2,
					Examples: []string{
						"Coccinella septempunctata preys on Aphis fabae",
					},
				},
			},
		},
		pairs: map[string]*score.PairResult{
			"wfo-a|wfo-c": {PlantA: "wfo-a", PlantB: "wfo-c", Score: 0.42},
		},
		summaries: []ioplants.Summary{
			{ID: "wfo-a", ScientificName: "Acer campestre", Genus: "Acer",
				Pollinators: 12},
			{ID: "wfo-b", ScientificName: "Trifolium repens",
				Genus: "Trifolium"},
		},
	}

	return &Handles{
		Store:     store,
		Scorer:    score.NewScorer(score.Web{}),
		Embedding: emb,
		Oracle:    recommend.NewEmbeddingOracle(emb),
	}
}

func perform(
	t *testing.T, r *gin.Engine, method, path string, body []byte,
) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func encodeBody(t *testing.T, v any) []byte {
	t.Helper()
	enc := gnfmt.GNjson{}
	data, err := enc.Encode(v)
	require.NoError(t, err)
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	enc := gnfmt.GNjson{}
	require.NoError(t, enc.Decode(rec.Body.Bytes(), v))
}

type testEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func TestPing(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestScoreGuild(t *testing.T) {
	r := NewRouter(testHandles(t))
	body := encodeBody(t, scoreGuildRequest{
		PlantIDs: []string{"wfo-a", "wfo-b"},
	})

	rec := perform(t, r, http.MethodPost, "/api/score-guild", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Success     bool              `json:"success"`
		Members     int               `json:"members"`
		Vetoed      bool              `json:"vetoed"`
		PlantNames  map[string]string `json:"plant_names"`
		Explanation struct {
			Rating struct {
				Stars int    `json:"stars"`
				Label string `json:"label"`
			} `json:"rating"`
		} `json:"explanation"`
	}
	decodeBody(t, rec, &got)

	assert.True(t, got.Success)
	assert.Equal(t, 2, got.Members)
	assert.False(t, got.Vetoed)
	assert.Equal(t, "Acer campestre", got.PlantNames["wfo-a"])
	assert.Equal(t, "Trifolium repens", got.PlantNames["wfo-b"])
	assert.GreaterOrEqual(t, got.Explanation.Rating.Stars, 1)
	assert.NotEmpty(t, got.Explanation.Rating.Label)
}

func TestScoreGuildRejectsSize(t *testing.T) {
	r := NewRouter(testHandles(t))
	body := encodeBody(t, scoreGuildRequest{PlantIDs: []string{"wfo-a"}})

	rec := perform(t, r, http.MethodPost, "/api/score-guild", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "invalid_guild_size", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "got 1")
}

func TestScoreGuildUnknownPlant(t *testing.T) {
	r := NewRouter(testHandles(t))
	body := encodeBody(t, scoreGuildRequest{
		PlantIDs: []string{"wfo-a", "wfo-x"},
	})

	rec := perform(t, r, http.MethodPost, "/api/score-guild", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "unknown_plants", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "wfo-x")
}

func TestScoreGuildMalformedBody(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodPost, "/api/score-guild", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "invalid_request", envelope.Error.Code)
}

func TestRecommendDefaults(t *testing.T) {
	r := NewRouter(testHandles(t))
	body := encodeBody(t, recommendRequest{Guild: []string{"wfo-a"}})

	rec := perform(t, r, http.MethodPost, "/api/recommend", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got recommendResponse
	decodeBody(t, rec, &got)

	assert.Equal(t, recommend.StrategyMaximin, got.Strategy)
	assert.Equal(t, 4, got.Pool)
	require.Len(t, got.Ranked, 3)
	// wfo-c sits on the far corner; the equidistant pair behind it
	// comes in id order.
	assert.Equal(t, "wfo-c", got.Ranked[0].PlantID)
	assert.Equal(t, "wfo-b", got.Ranked[1].PlantID)
	assert.Equal(t, "wfo-d", got.Ranked[2].PlantID)
}

func TestRecommendUnknownGuild(t *testing.T) {
	r := NewRouter(testHandles(t))
	body := encodeBody(t, recommendRequest{Guild: []string{"wfo-x"}})

	rec := perform(t, r, http.MethodPost, "/api/recommend", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "unknown_plants", envelope.Error.Code)
}

func TestRecommendBadStrategy(t *testing.T) {
	r := NewRouter(testHandles(t))
	body := encodeBody(t, recommendRequest{
		Guild:    []string{"wfo-a"},
		Strategy: "nearest",
	})

	rec := perform(t, r, http.MethodPost, "/api/recommend", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "invalid_strategy", envelope.Error.Code)
}

func TestPairCached(t *testing.T) {
	r := NewRouter(testHandles(t))

	// Requested in reverse order; the cache stores the smaller id
	// first and the entry comes back as stored.
	rec := perform(t, r, http.MethodGet, "/api/pair/wfo-c/wfo-a", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got score.PairResult
	decodeBody(t, rec, &got)
	assert.Equal(t, "wfo-a", got.PlantA)
	assert.Equal(t, "wfo-c", got.PlantB)
	assert.InDelta(t, 0.42, got.Score, 1e-9)
}

func TestPairLiveFallback(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/pair/wfo-a/wfo-b", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got score.PairResult
	decodeBody(t, rec, &got)
	assert.Equal(t, "wfo-a", got.PlantA)
	assert.Equal(t, "wfo-b", got.PlantB)
	assert.Equal(t, 1, got.Counts.SharedPollinators)
	assert.Equal(t, 2, got.Counts.PredatorsAToB)
	assert.Equal(t, 0, got.Counts.PredatorsBToA)
}

func TestPairSamePlant(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/pair/wfo-a/wfo-a", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "invalid_pair", envelope.Error.Code)
}

func TestPairUnknownPlant(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/pair/wfo-a/wfo-x", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "unknown_plants", envelope.Error.Code)
}

func TestSearch(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/plants/search?q=acer", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got searchResponse
	decodeBody(t, rec, &got)
	assert.Equal(t, "acer", got.Query)
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Plants, 1)
	assert.Equal(t, "Acer campestre", got.Plants[0].ScientificName)
	assert.Equal(t, 12, got.Plants[0].Pollinators)
}

func TestSearchNoMatches(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/plants/search?q=quercus", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Body.String(), `"plants":[]`)
}

func TestSearchShortQuery(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/plants/search?q=ab", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "query_too_short", envelope.Error.Code)
}

func TestSearchBadLimit(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet,
		"/api/plants/search?q=acer&limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "invalid_limit", envelope.Error.Code)
}

func TestPlantDetails(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/plant/wfo-a", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got ioplants.Summary
	decodeBody(t, rec, &got)
	assert.Equal(t, "Acer campestre", got.ScientificName)
	assert.Equal(t, "Acer", got.Genus)
}

func TestPlantDetailsUnknown(t *testing.T) {
	r := NewRouter(testHandles(t))

	rec := perform(t, r, http.MethodGet, "/api/plant/wfo-x", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope testEnvelope
	decodeBody(t, rec, &envelope)
	assert.Equal(t, "plant_not_found", envelope.Error.Code)
}

func TestScoreGuildUsesVectors(t *testing.T) {
	r := NewRouter(testHandles(t))
	body := encodeBody(t, scoreGuildRequest{PlantIDs: []string{"wfo-a", "wfo-b"}})

	rec := perform(t, r, http.MethodPost, "/api/score-guild", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp scoreGuildResponse
	decodeBody(t, rec, &resp)
	comps := append(resp.Negatives, resp.Positives...)
	require.NotEmpty(t, comps)
}
