package recommend

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Benchmark defaults. Fifty random guilds give the overlap estimate a
// standard error of a few percent, which is enough to catch a bad
// embedding.
const (
	DefaultGuilds        = 50
	DefaultGuildSize     = 5
	DefaultCandidatePool = 200
	DefaultTopK          = 5
)

// BenchmarkConfig controls the agreement benchmark. Zero fields take
// the package defaults.
type BenchmarkConfig struct {
	Guilds        int
	GuildSize     int
	CandidatePool int
	TopK          int
	Strategy      Strategy
	Seed          int64
}

func (cfg BenchmarkConfig) withDefaults() BenchmarkConfig {
	if cfg.Guilds == 0 {
		cfg.Guilds = DefaultGuilds
	}
	if cfg.GuildSize == 0 {
		cfg.GuildSize = DefaultGuildSize
	}
	if cfg.CandidatePool == 0 {
		cfg.CandidatePool = DefaultCandidatePool
	}
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyMaximin
	}
	return cfg
}

// BenchmarkResult reports how closely the approximate oracle tracks the
// exact one, and how much faster it is.
type BenchmarkResult struct {
	Guilds        int      `json:"guilds"`
	GuildSize     int      `json:"guild_size"`
	CandidatePool int      `json:"candidate_pool"`
	TopK          int      `json:"top_k"`
	Strategy      Strategy `json:"strategy"`

	// MeanOverlapPct is the average share of the exact oracle's top k
	// that the approximate oracle also picked.
	MeanOverlapPct   float64 `json:"mean_overlap_pct"`
	MedianOverlapPct float64 `json:"median_overlap_pct"`

	// Top1AccuracyPct is how often both oracles agree on the single
	// best candidate.
	Top1AccuracyPct float64 `json:"top1_accuracy_pct"`

	MeanExactMs    float64 `json:"mean_exact_ms"`
	MeanApproxMs   float64 `json:"mean_approx_ms"`
	MedianApproxMs float64 `json:"median_approx_ms"`
	Speedup        float64 `json:"speedup"`
}

// Benchmark measures top-k agreement between two oracles over randomly
// sampled guilds and candidate pools drawn from roster. The same guilds
// go to both oracles, so the comparison isolates the distance
// approximation. The run is deterministic for a given seed.
func Benchmark(
	exact, approx DistanceOracle,
	roster []string,
	cfg BenchmarkConfig,
) (BenchmarkResult, error) {
	cfg = cfg.withDefaults()
	if cfg.GuildSize < 1 {
		return BenchmarkResult{}, fmt.Errorf(
			"guild size must be positive, got %d", cfg.GuildSize,
		)
	}
	if len(roster) < cfg.GuildSize+1 {
		return BenchmarkResult{}, fmt.Errorf(
			"roster of %d plants cannot seat a guild of %d plus a candidate",
			len(roster), cfg.GuildSize,
		)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	overlaps := make([]float64, 0, cfg.Guilds)
	approxMs := make([]float64, 0, cfg.Guilds)
	var exactTotal, approxTotal time.Duration
	top1 := 0

	for g := 0; g < cfg.Guilds; g++ {
		perm := rng.Perm(len(roster))
		guild := make([]string, cfg.GuildSize)
		for i := range guild {
			guild[i] = roster[perm[i]]
		}
		poolSize := len(roster) - cfg.GuildSize
		if poolSize > cfg.CandidatePool {
			poolSize = cfg.CandidatePool
		}
		pool := make([]string, poolSize)
		for i := range pool {
			pool[i] = roster[perm[cfg.GuildSize+i]]
		}

		start := time.Now()
		exactTop, err := Recommend(exact, guild, pool, cfg.TopK, cfg.Strategy)
		if err != nil {
			return BenchmarkResult{}, err
		}
		exactTotal += time.Since(start)

		start = time.Now()
		approxTop, err := Recommend(approx, guild, pool, cfg.TopK, cfg.Strategy)
		if err != nil {
			return BenchmarkResult{}, err
		}
		elapsed := time.Since(start)
		approxTotal += elapsed
		approxMs = append(approxMs, msec(elapsed))

		picked := make(map[string]bool, len(exactTop))
		for _, r := range exactTop {
			picked[r.PlantID] = true
		}
		shared := 0
		for _, r := range approxTop {
			if picked[r.PlantID] {
				shared++
			}
		}
		denom := cfg.TopK
		if len(exactTop) < denom {
			denom = len(exactTop)
		}
		overlaps = append(overlaps, 100*float64(shared)/float64(denom))
		if exactTop[0].PlantID == approxTop[0].PlantID {
			top1++
		}
	}

	res := BenchmarkResult{
		Guilds:          cfg.Guilds,
		GuildSize:       cfg.GuildSize,
		CandidatePool:   cfg.CandidatePool,
		TopK:            cfg.TopK,
		Strategy:        cfg.Strategy,
		MeanOverlapPct:  stat.Mean(overlaps, nil),
		Top1AccuracyPct: 100 * float64(top1) / float64(cfg.Guilds),
		MeanExactMs:     msec(exactTotal) / float64(cfg.Guilds),
		MeanApproxMs:    msec(approxTotal) / float64(cfg.Guilds),
	}
	sort.Float64s(overlaps)
	res.MedianOverlapPct = stat.Quantile(0.5, stat.Empirical, overlaps, nil)
	sort.Float64s(approxMs)
	res.MedianApproxMs = stat.Quantile(0.5, stat.Empirical, approxMs, nil)
	if approxTotal > 0 {
		res.Speedup = float64(exactTotal) / float64(approxTotal)
	}
	return res, nil
}

func msec(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
