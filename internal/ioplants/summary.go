package ioplants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
)

// Summary is one row of the plant_summary materialized view: the
// plant's reference traits plus counts over its organism profile and
// fungal guilds. Nil numeric fields mean the trait is unknown.
type Summary struct {
	ID             string `json:"id"`
	ScientificName string `json:"scientific_name"`
	Family         string `json:"family,omitempty"`
	Genus          string `json:"genus,omitempty"`
	GrowthForm     string `json:"growth_form,omitempty"`

	HeightM *float64 `json:"height_m,omitempty"`
	CSRC    *float64 `json:"csr_c,omitempty"`
	CSRS    *float64 `json:"csr_s,omitempty"`
	CSRR    *float64 `json:"csr_r,omitempty"`

	TempQ05      *float64 `json:"temp_q05,omitempty"`
	TempQ95      *float64 `json:"temp_q95,omitempty"`
	PrecipQ05    *float64 `json:"precip_q05,omitempty"`
	PrecipQ95    *float64 `json:"precip_q95,omitempty"`
	HardinessQ05 *float64 `json:"hardiness_q05,omitempty"`
	HardinessQ95 *float64 `json:"hardiness_q95,omitempty"`

	DroughtDays *float64 `json:"drought_days,omitempty"`
	FrostDays   *float64 `json:"frost_days,omitempty"`

	EiveLight      *float64 `json:"eive_light,omitempty"`
	SoilPH         *float64 `json:"soil_ph,omitempty"`
	NitrogenRating *float64 `json:"nitrogen_rating,omitempty"`

	TipLabel string `json:"tip_label,omitempty"`

	Pollinators      int `json:"pollinators"`
	Visitors         int `json:"visitors"`
	Herbivores       int `json:"herbivores"`
	Pathogens        int `json:"pathogens"`
	PathogenicFungi  int `json:"pathogenic_fungi"`
	MycorrhizalFungi int `json:"mycorrhizal_fungi"`
}

const summaryColumns = `id, scientific_name, family, genus, growth_form,
	height_m, csr_c, csr_s, csr_r,
	temp_q05, temp_q95, precip_q05, precip_q95,
	hardiness_q05, hardiness_q95, drought_days, frost_days,
	eive_light, soil_ph, nitrogen_rating, tip_label,
	pollinators, visitors, herbivores, pathogens,
	pathogenic_fungi, mycorrhizal_fungi`

func scanSummary(row pgx.Row) (*Summary, error) {
	var (
		res                       Summary
		family, genus, growthForm sql.NullString
		tipLabel                  sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.ScientificName, &family, &genus, &growthForm,
		&res.HeightM, &res.CSRC, &res.CSRS, &res.CSRR,
		&res.TempQ05, &res.TempQ95, &res.PrecipQ05, &res.PrecipQ95,
		&res.HardinessQ05, &res.HardinessQ95,
		&res.DroughtDays, &res.FrostDays,
		&res.EiveLight, &res.SoilPH, &res.NitrogenRating,
		&tipLabel,
		&res.Pollinators, &res.Visitors, &res.Herbivores,
		&res.Pathogens, &res.PathogenicFungi, &res.MycorrhizalFungi,
	)
	if err != nil {
		return nil, err
	}
	res.Family = family.String
	res.Genus = genus.String
	res.GrowthForm = growthForm.String
	res.TipLabel = tipLabel.String
	return &res, nil
}

// Search finds plants whose scientific name or genus contains the
// query, case-insensitively.
func (s *store) Search(
	ctx context.Context,
	query string,
	limit int,
) ([]Summary, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLen {
		return nil, &QueryTooShortError{Query: query}
	}
	if limit < 1 {
		limit = DefaultSearchLimit
	}

	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	q := `
SELECT ` + summaryColumns + `
FROM plant_summary
WHERE LOWER(scientific_name) LIKE $1 OR LOWER(genus) LIKE $1
ORDER BY scientific_name
LIMIT $2
`
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := pool.Query(ctx, q, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("cannot search plants: %w", err)
	}
	defer rows.Close()

	var res []Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("cannot scan summary row: %w", err)
		}
		res = append(res, *sum)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read summary rows: %w", err)
	}
	return res, nil
}

// Plant returns the summary row for one plant id.
func (s *store) Plant(ctx context.Context, id string) (*Summary, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	q := `
SELECT ` + summaryColumns + `
FROM plant_summary
WHERE id = $1
`
	sum, err := scanSummary(pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &UnknownPlantsError{IDs: []string{id}}
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load plant %s: %w", id, err)
	}
	return sum, nil
}
