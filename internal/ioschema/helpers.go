package ioschema

import "fmt"

// columnDef names a varchar column that gets "C" collation.
type columnDef struct {
	table, column string
	varchar       int
}

// collationColumns lists every id and name column the pipelines order
// by or join on. Plant ids and organism names must sort and compare
// bytewise, keeping the distance matrix roster order stable across
// server locales.
var collationColumns = []columnDef{
	{"plants", "id", 50},
	{"plants", "scientific_name", 255},
	{"plants", "tip_label", 100},
	{"interactions", "source_name", 255},
	{"organism_profiles", "organism_name", 255},
	{"organism_enemies", "organism_name", 255},
	{"organism_enemies", "enemy_name", 255},
	{"fungal_traits", "genus", 100},
	{"fungal_guilds", "genus", 100},
}

// collationSQL renders the ALTER TABLE statement for one column.
func collationSQL(col columnDef) string {
	return fmt.Sprintf(
		`ALTER TABLE %s ALTER COLUMN %s TYPE VARCHAR(%d) COLLATE "C"`,
		col.table, col.column, col.varchar,
	)
}
