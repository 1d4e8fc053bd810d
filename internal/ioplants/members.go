package ioplants

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/permaguild/guilddb/pkg/score"
)

// Members loads scorer members for ids. Three queries fill the record:
// the plants row for traits, organism_profiles for the role lists and
// fungal_guilds for the fungal genera.
func (s *store) Members(
	ctx context.Context,
	ids []string,
) ([]score.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*score.Member, len(ids))

	q := `
SELECT id, scientific_name, family, growth_form, height_m,
	csr_c, csr_s, csr_r,
	temp_q05, temp_q95, precip_q05, precip_q95,
	hardiness_q05, hardiness_q95,
	drought_days, frost_days,
	eive_light, soil_ph, nitrogen_rating
FROM plants
WHERE id = ANY($1)
`
	rows, err := pool.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("cannot query plants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, name           string
			family, growthForm sql.NullString

			heightM, csrC, csrS, csrR      sql.NullFloat64
			tempQ05, tempQ95               sql.NullFloat64
			precipQ05, precipQ95           sql.NullFloat64
			hardyQ05, hardyQ95             sql.NullFloat64
			droughtDays, frostDays         sql.NullFloat64
			eiveLight, soilPH, nitroRating sql.NullFloat64
		)
		err = rows.Scan(
			&id, &name, &family, &growthForm, &heightM,
			&csrC, &csrS, &csrR,
			&tempQ05, &tempQ95, &precipQ05, &precipQ95,
			&hardyQ05, &hardyQ95,
			&droughtDays, &frostDays,
			&eiveLight, &soilPH, &nitroRating,
		)
		if err != nil {
			return nil, fmt.Errorf("cannot scan plant row: %w", err)
		}

		t := score.NewTraits(id)
		t.Name = name
		t.Family = family.String
		t.GrowthForm = growthForm.String
		setFloat(&t.HeightM, heightM)
		setFloat(&t.C, csrC)
		setFloat(&t.S, csrS)
		setFloat(&t.R, csrR)
		setFloat(&t.TempQ05, tempQ05)
		setFloat(&t.TempQ95, tempQ95)
		setFloat(&t.PrecipQ05, precipQ05)
		setFloat(&t.PrecipQ95, precipQ95)
		setFloat(&t.HardinessQ05, hardyQ05)
		setFloat(&t.HardinessQ95, hardyQ95)
		setFloat(&t.DroughtDays, droughtDays)
		setFloat(&t.FrostDays, frostDays)
		setFloat(&t.SoilPH, soilPH)
		setFloat(&t.NitrogenRating, nitroRating)
		if eiveLight.Valid {
			t.LightPref = score.LightFromEIVE(eiveLight.Float64)
		}
		byID[id] = &score.Member{Traits: t}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read plant rows: %w", err)
	}

	var missing []string
	for _, id := range ids {
		if byID[id] == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &UnknownPlantsError{IDs: missing}
	}

	if err = s.attachOrganisms(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err = s.attachFungi(ctx, ids, byID); err != nil {
		return nil, err
	}

	res := make([]score.Member, len(ids))
	for i, id := range ids {
		res[i] = *byID[id]
	}
	return res, nil
}

func (s *store) attachOrganisms(
	ctx context.Context,
	ids []string,
	byID map[string]*score.Member,
) error {
	pool, err := s.pool()
	if err != nil {
		return err
	}

	q := `
SELECT plant_id, organism_name, role
FROM organism_profiles
WHERE plant_id = ANY($1)
ORDER BY plant_id, organism_name
`
	rows, err := pool.Query(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("cannot query organism profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var plantID, name, role string
		if err = rows.Scan(&plantID, &name, &role); err != nil {
			return fmt.Errorf("cannot scan profile row: %w", err)
		}
		m := byID[plantID]
		if m == nil {
			continue
		}
		switch organism.Role(role) {
		case organism.RolePollinator:
			m.Pollinators = append(m.Pollinators, name)
		case organism.RoleVisitor:
			m.Visitors = append(m.Visitors, name)
		case organism.RoleHerbivore:
			m.Herbivores = append(m.Herbivores, name)
		case organism.RolePathogen:
			m.Pathogens = append(m.Pathogens, name)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("cannot read profile rows: %w", err)
	}
	return nil
}

func (s *store) attachFungi(
	ctx context.Context,
	ids []string,
	byID map[string]*score.Member,
) error {
	pool, err := s.pool()
	if err != nil {
		return err
	}

	q := `
SELECT plant_id, genus, pathogenic, host_specific, amf, emf,
	mycoparasite, entomopathogenic, endophytic, saprotrophic
FROM fungal_guilds
WHERE plant_id = ANY($1)
ORDER BY plant_id, genus
`
	rows, err := pool.Query(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("cannot query fungal guilds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			plantID, genus string
			f              organism.GuildFlags
		)
		err = rows.Scan(
			&plantID, &genus,
			&f.Pathogenic, &f.HostSpecific, &f.AMF, &f.EMF,
			&f.Mycoparasite, &f.Entomopathogenic,
			&f.Endophytic, &f.Saprotrophic,
		)
		if err != nil {
			return fmt.Errorf("cannot scan guild row: %w", err)
		}
		m := byID[plantID]
		if m == nil {
			continue
		}
		m.Fungi = append(m.Fungi, score.Fungus{Genus: genus, Flags: f})
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("cannot read guild rows: %w", err)
	}
	return nil
}

// Roster returns the ids of plants with at least one profile row.
func (s *store) Roster(ctx context.Context) ([]string, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	q := `
SELECT DISTINCT plant_id
FROM organism_profiles
ORDER BY plant_id
`
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("cannot query profiled plants: %w", err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("cannot scan plant id: %w", err)
		}
		res = append(res, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read plant ids: %w", err)
	}
	return res, nil
}

func setFloat(dst *float64, v sql.NullFloat64) {
	if v.Valid {
		*dst = v.Float64
	}
}
