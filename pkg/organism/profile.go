package organism

import (
	"sort"
	"strings"
)

// Edge is one interaction record as read from the edge list. The
// target is a plant for profile edges and another organism for enemy
// edges.
type Edge struct {
	SourceName    string
	SourceKingdom string
	SourcePhylum  string
	SourceGenus   string
	Relation      string
	TargetName    string
	TargetKingdom string
	TargetClass   string
	TargetPlantID string
}

// Record is one organism in one role on one plant.
type Record struct {
	PlantID       string
	OrganismName  string
	Role          Role
	Kingdom       string
	PathogenClass PathogenClass
	Records       int
}

type entryKey struct {
	plantID string
	name    string
	role    Role
}

// Builder accumulates plant-target edges into per-plant profile
// records. Not safe for concurrent use; feed it from one goroutine.
//
// Herbivore classification is resolved at Finalize: an organism that
// visits flowers of any plant is considered a nectar feeder and never
// a herbivore, no matter how many `eats` records it carries.
type Builder struct {
	visitors map[string]bool
	entries  map[entryKey]*Record
}

// NewBuilder creates an empty profile builder.
func NewBuilder() *Builder {
	return &Builder{
		visitors: make(map[string]bool),
		entries:  make(map[entryKey]*Record),
	}
}

// Add classifies one edge and accumulates its roles. Edges without a
// resolved target plant, with an empty name, or with the `no name`
// placeholder are ignored.
func (b *Builder) Add(e Edge) {
	name := strings.TrimSpace(e.SourceName)
	if name == "" || name == NoName || e.TargetPlantID == "" {
		return
	}

	for _, role := range ClassifyRelation(e.Relation) {
		if role == RoleVisitor {
			b.visitors[name] = true
		}
		if role == RolePathogen {
			if PathogenExcluded(e.SourceKingdom, e.SourcePhylum) ||
				PlaceholderName(name) {
				continue
			}
		}

		key := entryKey{plantID: e.TargetPlantID, name: name, role: role}
		if rec, ok := b.entries[key]; ok {
			rec.Records++
			continue
		}
		rec := &Record{
			PlantID:      e.TargetPlantID,
			OrganismName: name,
			Role:         role,
			Kingdom:      e.SourceKingdom,
			Records:      1,
		}
		if role == RolePathogen {
			rec.PathogenClass = ClassifyPathogen(e.SourceKingdom, e.SourcePhylum)
		}
		b.entries[key] = rec
	}
}

// Finalize applies the global visitor exclusion to herbivores and
// returns all records sorted by plant, role and name.
func (b *Builder) Finalize() []Record {
	res := make([]Record, 0, len(b.entries))
	for key, rec := range b.entries {
		if key.role == RoleHerbivore && b.visitors[key.name] {
			continue
		}
		res = append(res, *rec)
	}

	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.PlantID != b.PlantID {
			return a.PlantID < b.PlantID
		}
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.OrganismName < b.OrganismName
	})
	return res
}
