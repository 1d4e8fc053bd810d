package organism

import (
	"sort"
	"strings"
)

// Relation classes of the enemy index.
const (
	RelationPredator   = "predator"
	RelationAntagonist = "antagonist"
	RelationParasite   = "parasite"
)

// Enemy is one natural-enemy relation: a predator of a herbivore, an
// antagonist of a pathogen, or an entomopathogenic fungus of an
// insect.
type Enemy struct {
	OrganismName  string
	EnemyName     string
	RelationClass string
}

type enemyKey struct {
	organism string
	enemy    string
	class    string
}

// Insect and mite classes whose fungal parasites feed the biocontrol
// scorer.
var entomopathogenTargets = map[string]bool{
	"Insecta": true, "Arachnida": true,
}

// EnemyBuilder indexes enemies of the given herbivores and pathogens
// from organism-target edges, plus fungal parasites of insects and
// mites regardless of victim sets. Not safe for concurrent use.
type EnemyBuilder struct {
	herbivores  map[string]bool
	pathogens   map[string]bool
	predators   map[string]bool
	antagonists map[string]bool
	parasites   map[string]bool
	seen        map[enemyKey]bool
	enemies     []Enemy
}

// NewEnemyBuilder creates a builder for the victim name sets taken
// from the finished profiles.
func NewEnemyBuilder(herbivores, pathogens []string) *EnemyBuilder {
	b := &EnemyBuilder{
		herbivores:  make(map[string]bool, len(herbivores)),
		pathogens:   make(map[string]bool, len(pathogens)),
		predators:   make(map[string]bool),
		antagonists: make(map[string]bool),
		parasites:   make(map[string]bool),
		seen:        make(map[enemyKey]bool),
	}
	for _, h := range herbivores {
		b.herbivores[h] = true
	}
	for _, p := range pathogens {
		b.pathogens[p] = true
	}
	for _, r := range PredatorRelations() {
		b.predators[r] = true
	}
	for _, r := range AntagonistRelations() {
		b.antagonists[r] = true
	}
	for _, r := range ParasiteRelations() {
		b.parasites[r] = true
	}
	return b
}

// Add records an enemy relation when the edge's target is a known
// herbivore or pathogen. An `eats` edge can produce both classes when
// the same name appears in both victim sets. Fungus-on-insect edges
// index as parasites whether or not the insect is a known herbivore,
// so the scorer can match pests by name at query time.
func (b *EnemyBuilder) Add(e Edge) {
	enemy := strings.TrimSpace(e.SourceName)
	if enemy == "" || enemy == NoName || enemy == e.TargetName {
		return
	}

	if b.predators[e.Relation] && b.herbivores[e.TargetName] {
		b.record(e.TargetName, enemy, RelationPredator)
	}
	if b.antagonists[e.Relation] && b.pathogens[e.TargetName] {
		b.record(e.TargetName, enemy, RelationAntagonist)
	}
	if b.parasites[e.Relation] && e.SourceKingdom == "Fungi" &&
		e.TargetKingdom == "Animalia" && entomopathogenTargets[e.TargetClass] {
		b.record(e.TargetName, enemy, RelationParasite)
	}
}

func (b *EnemyBuilder) record(organism, enemy, class string) {
	key := enemyKey{organism: organism, enemy: enemy, class: class}
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.enemies = append(b.enemies, Enemy{
		OrganismName:  organism,
		EnemyName:     enemy,
		RelationClass: class,
	})
}

// Finalize returns the deduplicated enemy relations sorted by victim,
// class and enemy.
func (b *EnemyBuilder) Finalize() []Enemy {
	res := make([]Enemy, len(b.enemies))
	copy(res, b.enemies)

	sort.Slice(res, func(i, j int) bool {
		if res[i].OrganismName != res[j].OrganismName {
			return res[i].OrganismName < res[j].OrganismName
		}
		if res[i].RelationClass != res[j].RelationClass {
			return res[i].RelationClass < res[j].RelationClass
		}
		return res[i].EnemyName < res[j].EnemyName
	})
	return res
}
