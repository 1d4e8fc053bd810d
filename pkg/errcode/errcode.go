package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBQueryViewsError
	DBScanViewError
	DBDropViewError
	DBCreateViewError
	DBCreateViewIndexError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Dataset registry errors
	DatasetsConfigError
	DatasetNotFoundError
	SnapshotResolveError
	SnapshotFetchError
	SnapshotOpenError

	// Import errors
	ImportPlantsError
	ImportInteractionsError
	ImportFungalTraitsError
	ImportCopyError
	ImportMetadataError
	ImportAllDatasetsFailedError

	// Profile errors
	ProfileExtractError
	ProfileClassifyError
	ProfileEnemiesError
	ProfileSaveError

	// Benefit errors
	BenefitLoadError
	BenefitMineError
	BenefitSaveError

	// Pair score errors
	PairsLoadError
	PairsSaveError

	// Tree errors
	TreeReadError
	TreeParseError
	TreeFetchError
	TreeTipsError
	TreeResolutionError

	// Distance matrix errors
	MatrixRosterError
	MatrixBuildError
	MatrixShardError
	MatrixMergeError

	// Embedding errors
	EmbedMatrixError
	EmbedConvergenceError
	EmbedQualityError
	EmbedSaveError

	// Artifact errors
	ArtifactReadError
	ArtifactWriteError
	ArtifactHeaderError
	ArtifactStaleError

	// Scoring errors
	ScoreInputError
	ScoreDataError

	// Recommendation errors
	RecommendInputError
	RecommendOracleError

	// Serve errors
	ServeStartError
	ServeHandleError
)
