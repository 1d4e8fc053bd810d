// compare_profiles compares one plant's derived layers between two guilddb
// databases. This is a temporary tool for validating pipeline changes: run
// the reworked pipeline into a second database, then diff the outcomes
// before promoting it.
//
// Usage:
//
//	go run tools/compare_profiles.go --plant-id wfo-0000544679 --host localhost --port 5432 --user postgres --password secret
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Scores are deterministic, the tolerance only absorbs storage round-trips.
const scoreTolerance = 1e-9

type ComparisonResult struct {
	PlantID             string
	OldProfiles         int
	NewProfiles         int
	OldGuilds           int
	NewGuilds           int
	OldBenefits         int
	NewBenefits         int
	OldEnemyRelations   int
	NewEnemyRelations   int
	DatasetsMatch       bool
	ProfileRecordsMatch bool
	RoleCountsMatch     bool
	GuildRecordsMatch   bool
	BenefitRecordsMatch bool
	PairScoresMatch     bool
	OldRoleCounts       map[string]int
	NewRoleCounts       map[string]int
}

type ProfileRecord struct {
	OrganismUUID  string
	OrganismName  string
	Role          string
	Kingdom       sql.NullString
	PathogenClass sql.NullString
	Records       int
}

type GuildRecord struct {
	Genus            string
	Pathogenic       bool
	HostSpecific     bool
	AMF              bool
	EMF              bool
	Mycoparasite     bool
	Entomopathogenic bool
	Endophytic       bool
	Saprotrophic     bool
	Records          int
}

type BenefitRecord struct {
	PlantBID      string
	PredatorCount int
	ExampleChains sql.NullString
}

type PairRecord struct {
	PlantAID string
	PlantBID string
	Score    float64
}

func main() {
	plantID := flag.String("plant-id", "", "Plant ID to compare")
	host := flag.String("host", "localhost", "PostgreSQL host")
	port := flag.Int("port", 5432, "PostgreSQL port")
	user := flag.String("user", "postgres", "PostgreSQL user")
	password := flag.String("password", "", "PostgreSQL password")
	dbOld := flag.String("db-old", "guilddb", "Reference database name")
	dbNew := flag.String("db-new", "guilddb_new", "Reworked database name")
	sampleSize := flag.Int("sample-size", 100,
		"Number of sample records to compare")

	flag.Parse()

	if *plantID == "" {
		fmt.Println("Error: --plant-id is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to both databases
	oldConn, err := connect(ctx, *host, *port, *user, *password, *dbOld)
	if err != nil {
		log.Fatalf("Failed to connect to %s database: %v", *dbOld, err)
	}
	defer oldConn.Close()

	newConn, err := connect(ctx, *host, *port, *user, *password, *dbNew)
	if err != nil {
		log.Fatalf("Failed to connect to %s database: %v", *dbNew, err)
	}
	defer newConn.Close()

	fmt.Printf("Comparing derived layers for plant %s\n", *plantID)
	fmt.Println("===")
	fmt.Println()

	result := &ComparisonResult{PlantID: *plantID}

	// 1. Compare record counts
	fmt.Println("1. Record Counts")
	fmt.Println("----------------")
	if err := compareCounts(ctx, oldConn, newConn, *plantID,
		result); err != nil {
		log.Fatalf("Failed to compare counts: %v", err)
	}

	// 2. Compare dataset versions (differing snapshots explain every
	// downstream diff, check first)
	fmt.Println("\n2. Dataset Versions")
	fmt.Println("-------------------")
	if err := compareDatasets(ctx, oldConn, newConn, result); err != nil {
		log.Fatalf("Failed to compare datasets: %v", err)
	}

	// 3. Compare sample profile records
	fmt.Println("\n3. Sample Organism Profiles")
	fmt.Println("---------------------------")
	if err := compareProfileRecords(ctx, oldConn, newConn, *plantID,
		*sampleSize, result); err != nil {
		log.Fatalf("Failed to compare profile records: %v", err)
	}

	// 4. Compare role distribution
	fmt.Println("\n4. Role Distribution")
	fmt.Println("--------------------")
	if err := compareRoleCounts(ctx, oldConn, newConn, *plantID,
		result); err != nil {
		log.Fatalf("Failed to compare role counts: %v", err)
	}

	// 5. Compare fungal guild records
	fmt.Println("\n5. Sample Fungal Guilds")
	fmt.Println("-----------------------")
	if err := compareGuildRecords(ctx, oldConn, newConn, *plantID,
		*sampleSize, result); err != nil {
		log.Fatalf("Failed to compare guild records: %v", err)
	}

	// 6. Compare benefit records
	fmt.Println("\n6. Sample Benefits")
	fmt.Println("------------------")
	if err := compareBenefitRecords(ctx, oldConn, newConn, *plantID,
		*sampleSize, result); err != nil {
		log.Fatalf("Failed to compare benefit records: %v", err)
	}

	// 7. Compare pair scores
	fmt.Println("\n7. Pair Score Spot Check")
	fmt.Println("------------------------")
	if err := comparePairScores(ctx, oldConn, newConn, *plantID,
		*sampleSize, result); err != nil {
		log.Fatalf("Failed to compare pair scores: %v", err)
	}

	// 8. Summary
	fmt.Println("\n8. Summary")
	fmt.Println("----------")
	printSummary(result)
}

func connect(
	ctx context.Context,
	host string,
	port int,
	user string,
	password string,
	database string,
) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, database,
	)

	return pgxpool.New(ctx, connStr)
}

func compareCounts(
	ctx context.Context,
	oldConn *pgxpool.Pool,
	newConn *pgxpool.Pool,
	plantID string,
	result *ComparisonResult,
) error {
	var err error
	result.OldProfiles, err = getPlantCount(ctx, oldConn,
		"organism_profiles", plantID)
	if err != nil {
		return fmt.Errorf("old profile count: %w", err)
	}

	result.NewProfiles, err = getPlantCount(ctx, newConn,
		"organism_profiles", plantID)
	if err != nil {
		return fmt.Errorf("new profile count: %w", err)
	}

	fmt.Printf("  Organism Profiles:\n")
	fmt.Printf("    old: %d\n", result.OldProfiles)
	fmt.Printf("    new: %d\n", result.NewProfiles)
	if result.OldProfiles == result.NewProfiles {
		fmt.Printf("    ✓ Match\n")
	} else {
		fmt.Printf("    ✗ Mismatch (diff: %d)\n",
			result.NewProfiles-result.OldProfiles)
	}

	result.OldGuilds, err = getPlantCount(ctx, oldConn,
		"fungal_guilds", plantID)
	if err != nil {
		return fmt.Errorf("old guild count: %w", err)
	}

	result.NewGuilds, err = getPlantCount(ctx, newConn,
		"fungal_guilds", plantID)
	if err != nil {
		return fmt.Errorf("new guild count: %w", err)
	}

	fmt.Printf("\n  Fungal Guilds:\n")
	fmt.Printf("    old: %d\n", result.OldGuilds)
	fmt.Printf("    new: %d\n", result.NewGuilds)
	if result.OldGuilds == result.NewGuilds {
		fmt.Printf("    ✓ Match\n")
	} else {
		fmt.Printf("    ✗ Mismatch (diff: %d)\n",
			result.NewGuilds-result.OldGuilds)
	}

	result.OldBenefits, err = getBenefitCount(ctx, oldConn, plantID)
	if err != nil {
		return fmt.Errorf("old benefit count: %w", err)
	}

	result.NewBenefits, err = getBenefitCount(ctx, newConn, plantID)
	if err != nil {
		return fmt.Errorf("new benefit count: %w", err)
	}

	fmt.Printf("\n  Benefits Supplied:\n")
	fmt.Printf("    old: %d\n", result.OldBenefits)
	fmt.Printf("    new: %d\n", result.NewBenefits)
	if result.OldBenefits == result.NewBenefits {
		fmt.Printf("    ✓ Match\n")
	} else {
		fmt.Printf("    ✗ Mismatch (diff: %d)\n",
			result.NewBenefits-result.OldBenefits)
	}

	result.OldEnemyRelations, err = getEnemyRelationCount(ctx, oldConn,
		plantID)
	if err != nil {
		return fmt.Errorf("old enemy relation count: %w", err)
	}

	result.NewEnemyRelations, err = getEnemyRelationCount(ctx, newConn,
		plantID)
	if err != nil {
		return fmt.Errorf("new enemy relation count: %w", err)
	}

	fmt.Printf("\n  Enemy Relations (herbivore predators):\n")
	fmt.Printf("    old: %d\n", result.OldEnemyRelations)
	fmt.Printf("    new: %d\n", result.NewEnemyRelations)
	if result.OldEnemyRelations == result.NewEnemyRelations {
		fmt.Printf("    ✓ Match\n")
	} else {
		fmt.Printf("    ✗ Mismatch (diff: %d)\n",
			result.NewEnemyRelations-result.OldEnemyRelations)
	}

	return nil
}

func compareDatasets(
	ctx context.Context,
	oldConn *pgxpool.Pool,
	newConn *pgxpool.Pool,
	result *ComparisonResult,
) error {
	query := `
		SELECT kind, version, record_count
		FROM datasets
		ORDER BY id
	`

	oldVersions, err := getDatasetVersions(ctx, oldConn, query)
	if err != nil {
		return fmt.Errorf("old datasets query: %w", err)
	}

	newVersions, err := getDatasetVersions(ctx, newConn, query)
	if err != nil {
		return fmt.Errorf("new datasets query: %w", err)
	}

	result.DatasetsMatch = len(oldVersions) == len(newVersions)

	kinds := make(map[string]bool)
	for kind := range oldVersions {
		kinds[kind] = true
	}
	for kind := range newVersions {
		kinds[kind] = true
	}

	for kind := range kinds {
		oldV, oldOK := oldVersions[kind]
		newV, newOK := newVersions[kind]
		if !oldOK || !newOK || oldV != newV {
			result.DatasetsMatch = false
			fmt.Printf("  %s: ✗ old='%s' new='%s'\n", kind, oldV, newV)
		} else {
			fmt.Printf("  %s: ✓ %s\n", kind, oldV)
		}
	}

	if result.DatasetsMatch {
		fmt.Printf("\n  ✓ Both databases import the same snapshots\n")
	} else {
		fmt.Printf("\n  ✗ Snapshot versions differ, downstream diffs are expected\n")
	}

	return nil
}

func compareProfileRecords(
	ctx context.Context,
	oldConn *pgxpool.Pool,
	newConn *pgxpool.Pool,
	plantID string,
	sampleSize int,
	result *ComparisonResult,
) error {
	query := `
		SELECT
			organism_uuid, organism_name, role, kingdom, pathogen_class,
			records
		FROM organism_profiles
		WHERE plant_id = $1
		ORDER BY organism_name, role
		LIMIT $2
	`

	oldRecords, err := getProfileRecords(
		ctx,
		oldConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("old sample: %w", err)
	}

	newRecords, err := getProfileRecords(
		ctx,
		newConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("new sample: %w", err)
	}

	if len(oldRecords) != len(newRecords) {
		fmt.Printf("  Sample size mismatch: old=%d, new=%d\n",
			len(oldRecords), len(newRecords))
		result.ProfileRecordsMatch = false
		return nil
	}

	mismatches := 0
	for i := range len(oldRecords) {
		oldRec := oldRecords[i]
		newRec := newRecords[i]

		if oldRec.OrganismUUID != newRec.OrganismUUID ||
			oldRec.OrganismName != newRec.OrganismName ||
			oldRec.Role != newRec.Role ||
			!compareNullableStrings(oldRec.Kingdom, newRec.Kingdom) ||
			!compareNullableStrings(oldRec.PathogenClass, newRec.PathogenClass) ||
			oldRec.Records != newRec.Records {
			mismatches++
			if mismatches <= 5 {
				fmt.Printf("  Mismatch at organism %s:\n", oldRec.OrganismName)
				fmt.Printf("    old: %+v\n", oldRec)
				fmt.Printf("    new: %+v\n", newRec)
			}
		}
	}

	result.ProfileRecordsMatch = mismatches == 0

	fmt.Printf("  Sampled %d profile records\n", len(oldRecords))
	if result.ProfileRecordsMatch {
		fmt.Printf("  ✓ All profile records match\n")
	} else {
		fmt.Printf("  ✗ %d profile mismatches found\n", mismatches)
	}

	return nil
}

func compareRoleCounts(
	ctx context.Context,
	oldConn *pgxpool.Pool,
	newConn *pgxpool.Pool,
	plantID string,
	result *ComparisonResult,
) error {
	// Pathogen classes fold into the bucket key so the classifier rework
	// shows up here too.
	query := `
		SELECT
			CASE WHEN COALESCE(pathogen_class, '') = '' THEN role
			     ELSE role || ':' || pathogen_class END AS bucket,
			COUNT(*)
		FROM organism_profiles
		WHERE plant_id = $1
		GROUP BY bucket
		ORDER BY bucket
	`

	oldCounts, err := getRoleCounts(ctx, oldConn, query, plantID)
	if err != nil {
		return fmt.Errorf("old role counts: %w", err)
	}

	newCounts, err := getRoleCounts(ctx, newConn, query, plantID)
	if err != nil {
		return fmt.Errorf("new role counts: %w", err)
	}

	result.OldRoleCounts = oldCounts
	result.NewRoleCounts = newCounts

	// Compare the counts
	allMatch := true
	allRoles := make(map[string]bool)
	for role := range oldCounts {
		allRoles[role] = true
	}
	for role := range newCounts {
		allRoles[role] = true
	}

	for role := range allRoles {
		oldCount := oldCounts[role]
		newCount := newCounts[role]

		if oldCount == newCount {
			fmt.Printf("  %s: ✓ %d\n", role, oldCount)
		} else {
			fmt.Printf("  %s: ✗ old=%d new=%d (diff: %d)\n",
				role, oldCount, newCount, newCount-oldCount)
			allMatch = false
		}
	}

	result.RoleCountsMatch = allMatch

	if allMatch {
		fmt.Printf("\n  ✓ All role counts match\n")
	} else {
		fmt.Printf("\n  ✗ Role counts differ\n")
	}

	return nil
}

func compareGuildRecords(
	ctx context.Context,
	oldConn *pgxpool.Pool,
	newConn *pgxpool.Pool,
	plantID string,
	sampleSize int,
	result *ComparisonResult,
) error {
	// If there are no fungal guilds, skip comparison
	if result.OldGuilds == 0 && result.NewGuilds == 0 {
		fmt.Printf("  No fungal guilds in either database\n")
		result.GuildRecordsMatch = true
		return nil
	}

	query := `
		SELECT
			genus, pathogenic, host_specific, amf, emf, mycoparasite,
			entomopathogenic, endophytic, saprotrophic, records
		FROM fungal_guilds
		WHERE plant_id = $1
		ORDER BY genus
		LIMIT $2
	`

	oldRecords, err := getGuildRecords(
		ctx,
		oldConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("old guild sample: %w", err)
	}

	newRecords, err := getGuildRecords(
		ctx,
		newConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("new guild sample: %w", err)
	}

	if len(oldRecords) != len(newRecords) {
		fmt.Printf("  Sample size mismatch: old=%d, new=%d\n",
			len(oldRecords), len(newRecords))
		result.GuildRecordsMatch = false
		return nil
	}

	mismatches := 0
	for i := range len(oldRecords) {
		oldRec := oldRecords[i]
		newRec := newRecords[i]

		if oldRec != newRec {
			mismatches++
			if mismatches <= 5 {
				fmt.Printf("  Mismatch at genus %s:\n", oldRec.Genus)
				fmt.Printf("    old: %+v\n", oldRec)
				fmt.Printf("    new: %+v\n", newRec)
			}
		}
	}

	result.GuildRecordsMatch = mismatches == 0

	fmt.Printf("  Sampled %d guild records\n", len(oldRecords))
	if result.GuildRecordsMatch {
		fmt.Printf("  ✓ All guild records match\n")
	} else {
		fmt.Printf("  ✗ %d guild mismatches found\n", mismatches)
	}

	return nil
}

func compareBenefitRecords(
	ctx context.Context,
	oldConn *pgxpool.Pool,
	newConn *pgxpool.Pool,
	plantID string,
	sampleSize int,
	result *ComparisonResult,
) error {
	// If there are no benefits, skip comparison
	if result.OldBenefits == 0 && result.NewBenefits == 0 {
		fmt.Printf("  No benefits supplied in either database\n")
		result.BenefitRecordsMatch = true
		return nil
	}

	query := `
		SELECT plant_b_id, predator_count, example_chains::text
		FROM plant_benefits
		WHERE plant_a_id = $1
		ORDER BY plant_b_id
		LIMIT $2
	`

	oldRecords, err := getBenefitRecords(
		ctx,
		oldConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("old benefit sample: %w", err)
	}

	newRecords, err := getBenefitRecords(
		ctx,
		newConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("new benefit sample: %w", err)
	}

	if len(oldRecords) != len(newRecords) {
		fmt.Printf("  Sample size mismatch: old=%d, new=%d\n",
			len(oldRecords), len(newRecords))
		result.BenefitRecordsMatch = false
		return nil
	}

	mismatches := 0
	for i := range len(oldRecords) {
		oldRec := oldRecords[i]
		newRec := newRecords[i]

		if oldRec.PlantBID != newRec.PlantBID ||
			oldRec.PredatorCount != newRec.PredatorCount ||
			!compareNullableStrings(oldRec.ExampleChains, newRec.ExampleChains) {
			mismatches++
			if mismatches <= 5 {
				fmt.Printf("  Mismatch at helped plant %s:\n", oldRec.PlantBID)
				fmt.Printf("    old: %+v\n", oldRec)
				fmt.Printf("    new: %+v\n", newRec)
			}
		}
	}

	result.BenefitRecordsMatch = mismatches == 0

	fmt.Printf("  Sampled %d benefit records\n", len(oldRecords))
	if result.BenefitRecordsMatch {
		fmt.Printf("  ✓ All benefit records match\n")
	} else {
		fmt.Printf("  ✗ %d benefit mismatches found\n", mismatches)
	}

	return nil
}

func comparePairScores(
	ctx context.Context,
	oldConn *pgxpool.Pool,
	newConn *pgxpool.Pool,
	plantID string,
	sampleSize int,
	result *ComparisonResult,
) error {
	query := `
		SELECT plant_a_id, plant_b_id, score
		FROM pair_scores
		WHERE plant_a_id = $1 OR plant_b_id = $1
		ORDER BY plant_a_id, plant_b_id
		LIMIT $2
	`

	oldRecords, err := getPairRecords(
		ctx,
		oldConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("old pair sample: %w", err)
	}

	newRecords, err := getPairRecords(
		ctx,
		newConn,
		query,
		plantID,
		sampleSize,
	)
	if err != nil {
		return fmt.Errorf("new pair sample: %w", err)
	}

	if len(oldRecords) == 0 && len(newRecords) == 0 {
		fmt.Printf("  No cached pair scores in either database\n")
		result.PairScoresMatch = true
		return nil
	}

	if len(oldRecords) != len(newRecords) {
		fmt.Printf("  Sample size mismatch: old=%d, new=%d\n",
			len(oldRecords), len(newRecords))
		result.PairScoresMatch = false
		return nil
	}

	mismatches := 0
	for i := range len(oldRecords) {
		oldRec := oldRecords[i]
		newRec := newRecords[i]

		if oldRec.PlantAID != newRec.PlantAID ||
			oldRec.PlantBID != newRec.PlantBID ||
			math.Abs(oldRec.Score-newRec.Score) > scoreTolerance {
			mismatches++
			if mismatches <= 5 {
				fmt.Printf("  Mismatch at pair (%s, %s):\n",
					oldRec.PlantAID, oldRec.PlantBID)
				fmt.Printf("    old: %+v\n", oldRec)
				fmt.Printf("    new: %+v\n", newRec)
			}
		}
	}

	result.PairScoresMatch = mismatches == 0

	fmt.Printf("  Sampled %d pair scores\n", len(oldRecords))
	if result.PairScoresMatch {
		fmt.Printf("  ✓ All pair scores match\n")
	} else {
		fmt.Printf("  ✗ %d pair score mismatches found\n", mismatches)
	}

	return nil
}

func getPlantCount(
	ctx context.Context,
	conn *pgxpool.Pool,
	table string,
	plantID string,
) (int, error) {
	var count int
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE plant_id = $1", table)
	err := conn.QueryRow(ctx, query, plantID).Scan(&count)
	return count, err
}

func getBenefitCount(
	ctx context.Context,
	conn *pgxpool.Pool,
	plantID string,
) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM plant_benefits
	          WHERE plant_a_id = $1`
	err := conn.QueryRow(ctx, query, plantID).Scan(&count)
	return count, err
}

func getEnemyRelationCount(
	ctx context.Context,
	conn *pgxpool.Pool,
	plantID string,
) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM organism_enemies oe
		JOIN organism_profiles op ON op.organism_uuid = oe.organism_uuid
		WHERE op.plant_id = $1
		  AND op.role = 'herbivore'
		  AND oe.relation_class = 'predator'
	`
	err := conn.QueryRow(ctx, query, plantID).Scan(&count)
	return count, err
}

func getDatasetVersions(
	ctx context.Context,
	conn *pgxpool.Pool,
	query string,
) (map[string]string, error) {
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make(map[string]string)
	for rows.Next() {
		var kind, version string
		var recordCount int
		err := rows.Scan(&kind, &version, &recordCount)
		if err != nil {
			return nil, err
		}
		versions[kind] = fmt.Sprintf("%s (%d records)", version, recordCount)
	}

	return versions, rows.Err()
}

func getProfileRecords(
	ctx context.Context,
	conn *pgxpool.Pool,
	query string,
	plantID string,
	limit int,
) ([]ProfileRecord, error) {
	rows, err := conn.Query(ctx, query, plantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ProfileRecord
	for rows.Next() {
		var rec ProfileRecord
		err := rows.Scan(
			&rec.OrganismUUID,
			&rec.OrganismName,
			&rec.Role,
			&rec.Kingdom,
			&rec.PathogenClass,
			&rec.Records,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func getRoleCounts(
	ctx context.Context,
	conn *pgxpool.Pool,
	query string,
	plantID string,
) (map[string]int, error) {
	rows, err := conn.Query(ctx, query, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var count int
		err := rows.Scan(&role, &count)
		if err != nil {
			return nil, err
		}
		counts[role] = count
	}

	return counts, rows.Err()
}

func getGuildRecords(
	ctx context.Context,
	conn *pgxpool.Pool,
	query string,
	plantID string,
	limit int,
) ([]GuildRecord, error) {
	rows, err := conn.Query(ctx, query, plantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GuildRecord
	for rows.Next() {
		var rec GuildRecord
		err := rows.Scan(
			&rec.Genus,
			&rec.Pathogenic,
			&rec.HostSpecific,
			&rec.AMF,
			&rec.EMF,
			&rec.Mycoparasite,
			&rec.Entomopathogenic,
			&rec.Endophytic,
			&rec.Saprotrophic,
			&rec.Records,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func getBenefitRecords(
	ctx context.Context,
	conn *pgxpool.Pool,
	query string,
	plantID string,
	limit int,
) ([]BenefitRecord, error) {
	rows, err := conn.Query(ctx, query, plantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []BenefitRecord
	for rows.Next() {
		var rec BenefitRecord
		err := rows.Scan(
			&rec.PlantBID,
			&rec.PredatorCount,
			&rec.ExampleChains,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func getPairRecords(
	ctx context.Context,
	conn *pgxpool.Pool,
	query string,
	plantID string,
	limit int,
) ([]PairRecord, error) {
	rows, err := conn.Query(ctx, query, plantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PairRecord
	for rows.Next() {
		var rec PairRecord
		err := rows.Scan(
			&rec.PlantAID,
			&rec.PlantBID,
			&rec.Score,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func compareNullableStrings(a, b sql.NullString) bool {
	if !a.Valid && !b.Valid {
		return true
	}
	if !a.Valid || !b.Valid {
		return false
	}
	return a.String == b.String
}

func printSummary(result *ComparisonResult) {
	allMatch := result.OldProfiles == result.NewProfiles &&
		result.OldGuilds == result.NewGuilds &&
		result.OldBenefits == result.NewBenefits &&
		result.OldEnemyRelations == result.NewEnemyRelations &&
		result.DatasetsMatch &&
		result.ProfileRecordsMatch &&
		result.RoleCountsMatch &&
		result.GuildRecordsMatch &&
		result.BenefitRecordsMatch &&
		result.PairScoresMatch

	if allMatch {
		fmt.Println("  ✓ All comparisons match!")
		fmt.Println("  The pipelines are identical for this plant.")
	} else {
		fmt.Println("  ✗ Differences found:")
		if result.OldProfiles != result.NewProfiles {
			fmt.Printf("    - Profile count differs\n")
		}
		if result.OldGuilds != result.NewGuilds {
			fmt.Printf("    - Fungal guild count differs\n")
		}
		if result.OldBenefits != result.NewBenefits {
			fmt.Printf("    - Benefit count differs\n")
		}
		if result.OldEnemyRelations != result.NewEnemyRelations {
			fmt.Printf("    - Enemy relation count differs\n")
		}
		if !result.DatasetsMatch {
			fmt.Printf("    - Snapshot versions differ\n")
		}
		if !result.ProfileRecordsMatch {
			fmt.Printf("    - Profile records differ\n")
		}
		if !result.RoleCountsMatch {
			fmt.Printf("    - Role counts differ\n")
		}
		if !result.GuildRecordsMatch {
			fmt.Printf("    - Guild records differ\n")
		}
		if !result.BenefitRecordsMatch {
			fmt.Printf("    - Benefit records differ\n")
		}
		if !result.PairScoresMatch {
			fmt.Printf("    - Pair scores differ\n")
		}
	}
}
