package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Plant DDL methods
func (p Plant) TableDDL() string {
	return generateDDL(p, "plants")
}

func (p Plant) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_plants_genus ON plants(genus);",
		"CREATE INDEX idx_plants_family ON plants(family);",
		"CREATE INDEX idx_plants_tip_label ON plants(tip_label);",
	}
}

func (p Plant) TableName() string {
	return "plants"
}

// Interaction DDL methods
func (in Interaction) TableDDL() string {
	return generateDDL(in, "interactions")
}

func (in Interaction) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_interactions_target ON interactions(target_plant_id);",
		"CREATE INDEX idx_interactions_target_name ON interactions(target_name);",
		"CREATE INDEX idx_interactions_type ON interactions(interaction_type);",
		"CREATE INDEX idx_interactions_source ON interactions(source_name);",
	}
}

func (in Interaction) TableName() string {
	return "interactions"
}

// FungalTrait DDL methods
func (ft FungalTrait) TableDDL() string {
	return generateDDL(ft, "fungal_traits")
}

func (ft FungalTrait) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_fungal_traits_lifestyle ON fungal_traits(primary_lifestyle);",
	}
}

func (ft FungalTrait) TableName() string {
	return "fungal_traits"
}

// OrganismProfile DDL methods
func (op OrganismProfile) TableDDL() string {
	return generateDDL(op, "organism_profiles")
}

func (op OrganismProfile) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_organism_profiles_plant_role ON organism_profiles(plant_id, role);",
		"CREATE INDEX idx_organism_profiles_uuid ON organism_profiles(organism_uuid);",
	}
}

func (op OrganismProfile) TableName() string {
	return "organism_profiles"
}

// FungalGuild DDL methods
func (fg FungalGuild) TableDDL() string {
	return generateDDL(fg, "fungal_guilds")
}

func (fg FungalGuild) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_fungal_guilds_plant ON fungal_guilds(plant_id);",
		"CREATE INDEX idx_fungal_guilds_genus ON fungal_guilds(genus);",
	}
}

func (fg FungalGuild) TableName() string {
	return "fungal_guilds"
}

// OrganismEnemy DDL methods
func (oe OrganismEnemy) TableDDL() string {
	return generateDDL(oe, "organism_enemies")
}

func (oe OrganismEnemy) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_organism_enemies_uuid ON organism_enemies(organism_uuid);",
		"CREATE INDEX idx_organism_enemies_class ON organism_enemies(relation_class);",
	}
}

func (oe OrganismEnemy) TableName() string {
	return "organism_enemies"
}

// PlantBenefit DDL methods
func (pb PlantBenefit) TableDDL() string {
	return generateDDL(pb, "plant_benefits")
}

func (pb PlantBenefit) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_plant_benefits_pair ON plant_benefits(plant_a_id, plant_b_id);",
		"CREATE INDEX idx_plant_benefits_helped ON plant_benefits(plant_b_id);",
	}
}

func (pb PlantBenefit) TableName() string {
	return "plant_benefits"
}

// PairScore DDL methods
func (ps PairScore) TableDDL() string {
	return generateDDL(ps, "pair_scores")
}

func (ps PairScore) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_pair_scores_pair ON pair_scores(plant_a_id, plant_b_id);",
		"CREATE INDEX idx_pair_scores_score ON pair_scores(score);",
	}
}

func (ps PairScore) TableName() string {
	return "pair_scores"
}

// Dataset DDL methods
func (ds Dataset) TableDDL() string {
	return generateDDL(ds, "datasets")
}

func (ds Dataset) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_datasets_kind ON datasets(kind);",
	}
}

func (ds Dataset) TableName() string {
	return "datasets"
}

// SchemaVersion DDL methods
func (sv SchemaVersion) TableDDL() string {
	return generateDDL(sv, "schema_versions")
}

func (sv SchemaVersion) IndexDDL() []string {
	return []string{}
}

func (sv SchemaVersion) TableName() string {
	return "schema_versions"
}
