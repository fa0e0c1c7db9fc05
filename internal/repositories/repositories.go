// package repositories provides the SQLite persistence layer: the
// cross-run resolution cache and the run history ledger.
//
// Repositories receive an open *sql.DB (see shared.NewDatabase) with
// migrations already applied (see shared.RunMigrations).
package repositories

// Bucket labels used for persisted per-query outcomes.
const (
	bucketSuccessful = "successful"
	bucketFailed     = "failed"
	bucketNotFound   = "not_found"
	bucketDuplicates = "duplicates"
)
