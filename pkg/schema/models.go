// Package schema provides database schema models for guilddb.
// Models cover the imported reference data (plants, interactions, fungal
// traits) and the derived layers built from them (profiles, guilds, enemies,
// benefits, pair scores).
package schema

import (
	"database/sql"
	"time"
)

// DDLGenerator defines how Go models generate PostgreSQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the PostgreSQL table name for this model.
	TableName() string
}

// Plant is one species of the reference flora. Rows are immutable after
// import; all derived layers key on the stable taxonomic ID.
type Plant struct {
	// ID is the stable taxonomic key, e.g. "wfo-0000544679".
	ID string `db:"id" ddl:"VARCHAR(50) PRIMARY KEY"`

	// ScientificName is the accepted binomial with authorship stripped.
	ScientificName string `db:"scientific_name" ddl:"VARCHAR(255) NOT NULL"`

	// Family is the botanical family.
	Family string `db:"family" ddl:"VARCHAR(100)"`

	// Genus is the botanical genus.
	Genus string `db:"genus" ddl:"VARCHAR(100)"`

	// GrowthForm is the dominant growth form (tree, shrub, herb, ...).
	GrowthForm string `db:"growth_form" ddl:"VARCHAR(50)"`

	// HeightM is the typical adult height in meters.
	HeightM sql.NullFloat64 `db:"height_m" ddl:"DOUBLE PRECISION"`

	// CSRC, CSRS and CSRR are the Grime strategy percentages.
	// When present they sum to 100 within rounding error.
	CSRC sql.NullFloat64 `db:"csr_c" ddl:"DOUBLE PRECISION"`
	CSRS sql.NullFloat64 `db:"csr_s" ddl:"DOUBLE PRECISION"`
	CSRR sql.NullFloat64 `db:"csr_r" ddl:"DOUBLE PRECISION"`

	// TempQ05 and TempQ95 bound the occurrence-derived mean annual
	// temperature envelope (degrees C).
	TempQ05 sql.NullFloat64 `db:"temp_q05" ddl:"DOUBLE PRECISION"`
	TempQ95 sql.NullFloat64 `db:"temp_q95" ddl:"DOUBLE PRECISION"`

	// PrecipQ05 and PrecipQ95 bound the annual precipitation
	// envelope (mm).
	PrecipQ05 sql.NullFloat64 `db:"precip_q05" ddl:"DOUBLE PRECISION"`
	PrecipQ95 sql.NullFloat64 `db:"precip_q95" ddl:"DOUBLE PRECISION"`

	// HardinessQ05 and HardinessQ95 bound the cold-hardiness proxy
	// (minimum temperature of the coldest month, degrees C).
	HardinessQ05 sql.NullFloat64 `db:"hardiness_q05" ddl:"DOUBLE PRECISION"`
	HardinessQ95 sql.NullFloat64 `db:"hardiness_q95" ddl:"DOUBLE PRECISION"`

	// DroughtDays is the mean count of drought stress days per year
	// across occurrences.
	DroughtDays sql.NullFloat64 `db:"drought_days" ddl:"DOUBLE PRECISION"`

	// FrostDays is the mean count of frost stress days per year.
	FrostDays sql.NullFloat64 `db:"frost_days" ddl:"DOUBLE PRECISION"`

	// EiveLight is the Ellenberg-style light preference (EIVE L, 0-10).
	EiveLight sql.NullFloat64 `db:"eive_light" ddl:"DOUBLE PRECISION"`

	// SoilPH is the soil reaction optimum (pH units).
	SoilPH sql.NullFloat64 `db:"soil_ph" ddl:"DOUBLE PRECISION"`

	// NitrogenRating is the nitrogen-fixation rating in [0,1]; ratings
	// above 0.5 count the species as a nitrogen fixer.
	NitrogenRating sql.NullFloat64 `db:"nitrogen_rating" ddl:"DOUBLE PRECISION"`

	// TipLabel is the phylogeny tip label for this species, when the
	// species is present in the tree.
	TipLabel sql.NullString `db:"tip_label" ddl:"VARCHAR(100)"`
}

// Interaction is one organism-plant interaction record from the edge list.
// The table holds tens of millions of rows and is loaded by COPY.
type Interaction struct {
	// SourceName is the canonicalized name of the interacting organism.
	SourceName string `db:"source_name" ddl:"VARCHAR(255) NOT NULL"`

	// SourceKingdom is the organism's kingdom as given by the dataset.
	SourceKingdom string `db:"source_kingdom" ddl:"VARCHAR(50)"`

	// SourcePhylum is the organism's phylum, used to refine pathogen
	// classes (oomycetes, nematodes).
	SourcePhylum string `db:"source_phylum" ddl:"VARCHAR(100)"`

	// SourceGenus is the genus part of the canonical name.
	SourceGenus string `db:"source_genus" ddl:"VARCHAR(100)"`

	// InteractionType is the verbatim relation string
	// (pollinates, eats, pathogenOf, ...).
	InteractionType string `db:"interaction_type" ddl:"VARCHAR(100) NOT NULL"`

	// TargetName is the canonicalized name of the interaction target,
	// a plant or another organism. Enemy mining matches predators and
	// antagonists through this column.
	TargetName string `db:"target_name" ddl:"VARCHAR(255) NOT NULL"`

	// TargetKingdom is the target organism's kingdom.
	TargetKingdom string `db:"target_kingdom" ddl:"VARCHAR(50)"`

	// TargetClass is the target organism's taxonomic class. Mining of
	// entomopathogenic fungi keys on Insecta and Arachnida targets.
	TargetClass string `db:"target_class" ddl:"VARCHAR(50)"`

	// TargetPlantID references plants.id when the target resolved to
	// a plant of the roster, NULL otherwise.
	TargetPlantID sql.NullString `db:"target_plant_id" ddl:"VARCHAR(50)"`
}

// FungalTrait is a genus-keyed fungal lifestyle record used to sort fungi
// into guilds.
type FungalTrait struct {
	// Genus is the fungal genus, unique per record.
	Genus string `db:"genus" ddl:"VARCHAR(100) PRIMARY KEY"`

	// PrimaryLifestyle is the main lifestyle classification
	// (plant_pathogen, arbuscular_mycorrhizal, ...).
	PrimaryLifestyle string `db:"primary_lifestyle" ddl:"VARCHAR(100)"`

	// SecondaryLifestyle is the secondary lifestyle, may be empty.
	SecondaryLifestyle string `db:"secondary_lifestyle" ddl:"VARCHAR(100)"`

	// HostSpecificity describes host range (host-specific, generalist...).
	HostSpecificity string `db:"host_specificity" ddl:"VARCHAR(100)"`
}

// OrganismProfile is one organism in one role on one plant, aggregated
// from the interaction edge list.
type OrganismProfile struct {
	// PlantID references plants.id.
	PlantID string `db:"plant_id" ddl:"VARCHAR(50) NOT NULL"`

	// OrganismUUID is UUID v5 of the canonical organism name.
	OrganismUUID string `db:"organism_uuid" ddl:"UUID NOT NULL"`

	// OrganismName is the canonical organism name.
	OrganismName string `db:"organism_name" ddl:"VARCHAR(255) NOT NULL"`

	// Role is one of: pollinator, visitor, herbivore, pathogen.
	Role string `db:"role" ddl:"VARCHAR(20) NOT NULL"`

	// Kingdom is the organism's kingdom.
	Kingdom string `db:"kingdom" ddl:"VARCHAR(50)"`

	// PathogenClass splits pathogens by taxonomy: fungal, bacterial,
	// viral, oomycete, nematode or other. Empty for other roles.
	PathogenClass string `db:"pathogen_class" ddl:"VARCHAR(20)"`

	// Records is the number of interaction records backing this entry.
	Records int `db:"records" ddl:"INT NOT NULL DEFAULT 1"`
}

// FungalGuild is one fungal genus observed on one plant with its guild
// membership flags from the fungal trait lookup.
type FungalGuild struct {
	// PlantID references plants.id.
	PlantID string `db:"plant_id" ddl:"VARCHAR(50) NOT NULL"`

	// Genus is the fungal genus.
	Genus string `db:"genus" ddl:"VARCHAR(100) NOT NULL"`

	// Pathogenic is true for plant pathogens.
	Pathogenic bool `db:"pathogenic" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// HostSpecific is true when the pathogen has a narrow host range.
	HostSpecific bool `db:"host_specific" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// AMF is true for arbuscular mycorrhizal fungi.
	AMF bool `db:"amf" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// EMF is true for ectomycorrhizal fungi.
	EMF bool `db:"emf" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// Mycoparasite is true for fungi that parasitize other fungi.
	Mycoparasite bool `db:"mycoparasite" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// Entomopathogenic is true for insect-killing fungi.
	Entomopathogenic bool `db:"entomopathogenic" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// Endophytic is true for endophytes.
	Endophytic bool `db:"endophytic" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// Saprotrophic is true for saprotrophs.
	Saprotrophic bool `db:"saprotrophic" ddl:"BOOLEAN NOT NULL DEFAULT FALSE"`

	// Records is the number of interaction records backing this entry.
	Records int `db:"records" ddl:"INT NOT NULL DEFAULT 1"`
}

// OrganismEnemy is one natural-enemy relation mined from the interaction
// edge list: a predator of a herbivore, an antagonist of a pathogen, or an
// entomopathogenic fungus of an insect.
type OrganismEnemy struct {
	// OrganismUUID is UUID v5 of the victim organism's canonical name.
	OrganismUUID string `db:"organism_uuid" ddl:"UUID NOT NULL"`

	// OrganismName is the victim organism's canonical name.
	OrganismName string `db:"organism_name" ddl:"VARCHAR(255) NOT NULL"`

	// EnemyName is the canonical name of the enemy organism.
	EnemyName string `db:"enemy_name" ddl:"VARCHAR(255) NOT NULL"`

	// RelationClass is "predator" for enemies of herbivores, "antagonist"
	// for enemies of pathogens and "parasite" for fungal parasites of
	// insects and mites.
	RelationClass string `db:"relation_class" ddl:"VARCHAR(20) NOT NULL"`
}

// PlantBenefit is one ordered plant pair (a, b) with the biological control
// support a supplies to b: how many organisms a attracts that prey on b's
// herbivores.
type PlantBenefit struct {
	// PlantAID is the helper plant, references plants.id.
	PlantAID string `db:"plant_a_id" ddl:"VARCHAR(50) NOT NULL"`

	// PlantBID is the helped plant, references plants.id.
	PlantBID string `db:"plant_b_id" ddl:"VARCHAR(50) NOT NULL"`

	// PredatorCount is the number of distinct visitor organisms of a
	// that prey on at least one herbivore of b.
	PredatorCount int `db:"predator_count" ddl:"INT NOT NULL DEFAULT 0"`

	// ExampleChains holds up to three "X eats Y" example strings
	// as a JSON array.
	ExampleChains string `db:"example_chains" ddl:"JSONB" gorm:"type:jsonb"`
}

// PairScore is a cached pairwise compatibility entry for an unordered
// plant pair (PlantAID < PlantBID).
type PairScore struct {
	// PlantAID references plants.id, lexicographically first.
	PlantAID string `db:"plant_a_id" ddl:"VARCHAR(50) NOT NULL"`

	// PlantBID references plants.id.
	PlantBID string `db:"plant_b_id" ddl:"VARCHAR(50) NOT NULL"`

	// Score is the aggregated pair compatibility in [-1, 1].
	Score float64 `db:"score" ddl:"DOUBLE PRECISION NOT NULL"`

	// Detail holds component scores, counts and capped evidence lists
	// as a JSON document.
	Detail string `db:"detail" ddl:"JSONB" gorm:"type:jsonb"`

	// UpdatedAt records when the entry was computed.
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP WITHOUT TIME ZONE"`
}

// Dataset stores metadata for an imported dataset snapshot or the
// registered phylogeny.
type Dataset struct {
	// ID is the registry identifier from datasets.yaml.
	ID int `db:"id" ddl:"SMALLINT PRIMARY KEY"`

	// UUID is a unique identifier assigned to the resource upon creation.
	UUID string `db:"uuid" ddl:"UUID DEFAULT '00000000-0000-0000-0000-000000000000'"`

	// Kind selects the importer: plants, interactions, fungal-traits
	// or phylogeny.
	Kind string `db:"kind" ddl:"VARCHAR(20) NOT NULL"`

	// Title is the full, descriptive title of the dataset.
	Title string `db:"title" ddl:"VARCHAR(255)"`

	// TitleShort is a concise or abbreviated version of the dataset title.
	TitleShort string `db:"title_short" ddl:"VARCHAR(50)"`

	// Version denotes the specific version of the dataset.
	Version string `db:"version" ddl:"VARCHAR(50)"`

	// RevisionDate indicates when the dataset was created or last revised.
	RevisionDate string `db:"revision_date" ddl:"VARCHAR(50)"`

	// Description offers a summary of the dataset's content and purpose.
	Description string `db:"description" ddl:"TEXT"`

	// HomeURL is the primary web address associated with the dataset.
	HomeURL string `db:"home_url" ddl:"VARCHAR(255)"`

	// DataURL is the original location from which the snapshot was read.
	DataURL string `db:"data_url" ddl:"VARCHAR(255)"`

	// RecordCount is the total number of imported records.
	RecordCount int `db:"record_count" ddl:"INT"`

	// UpdatedAt records the timestamp of the dataset's last import.
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP WITHOUT TIME ZONE"`
}

// SchemaVersion tracks database schema migrations.
type SchemaVersion struct {
	Version     string    `db:"version" ddl:"TEXT PRIMARY KEY"`
	Description string    `db:"description" ddl:"TEXT"`
	AppliedAt   time.Time `db:"applied_at" ddl:"TIMESTAMP DEFAULT NOW()"`
}
