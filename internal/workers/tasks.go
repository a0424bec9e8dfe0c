// internal/workers/tasks.go
package workers

// Task type names for asynq registration and enqueueing
const (
	TypeExpiryScan       = "expiry:scan"
	TypeExcelImport      = "excel:import"
	TypeSendEmail        = "email:send"
	TypeCleanupOldData   = "cleanup:old_data"
	TypeCleanupTempFiles = "cleanup:temp_files"
)
