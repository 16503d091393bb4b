// Package monitoring reports runtime, database and uploads storage
// health for the key-gated operations endpoints.
package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type Service struct {
	db          *sql.DB
	uploadsRoot string
	startedAt   time.Time
}

// Snapshot is the machine-readable health report.
type Snapshot struct {
	TimestampUTC        string  `json:"timestamp_utc"`
	UptimeSeconds       int64   `json:"uptime_seconds"`
	HTTPActiveRequests  int64   `json:"http_active_requests"`
	HTTPTotalRequests   uint64  `json:"http_total_requests"`
	HTTPServerErrors    uint64  `json:"http_server_errors"`
	DBOpenConnections   int     `json:"db_open_connections"`
	DBInUseConnections  int     `json:"db_in_use_connections"`
	DBWaitCount         int64   `json:"db_wait_count"`
	DBSizeBytes         int64   `json:"db_size_bytes"`
	Goroutines          int     `json:"goroutines"`
	GoMemoryAllocBytes  uint64  `json:"go_memory_alloc_bytes"`
	GoHeapInUseBytes    uint64  `json:"go_heap_in_use_bytes"`
	GoGCCount           uint32  `json:"go_gc_count"`
	UsersTotal          int64   `json:"users_total"`
	BooksTotal          int64   `json:"books_total"`
	BooksRented         int64   `json:"books_rented"`
	UploadsSizeBytes    int64   `json:"uploads_size_bytes"`
	UploadsFilesCount   int64   `json:"uploads_files_count"`
	UploadsFSTotalBytes uint64  `json:"uploads_fs_total_bytes"`
	UploadsFSFreeBytes  uint64  `json:"uploads_fs_free_bytes"`
	UploadRequests      uint64  `json:"upload_requests"`
	UploadFailures      uint64  `json:"upload_failures"`
	UploadBytesTotal    int64   `json:"upload_bytes_total"`
	UploadAvgDurationMS float64 `json:"upload_avg_duration_ms"`
}

func NewService(db *sql.DB, uploadsRoot string) *Service {
	return &Service{db: db, uploadsRoot: uploadsRoot, startedAt: time.Now()}
}

// StatusText is the short human-readable report.
func (s *Service) StatusText(ctx context.Context) string {
	dbState := "ok"
	if err := s.db.PingContext(ctx); err != nil {
		dbState = "error: " + err.Error()
	}

	uptime := time.Since(s.startedAt).Round(time.Second)
	activeHTTP, totalHTTP, serverErrors := requestCounts()
	stats := s.db.Stats()

	return strings.Join([]string{
		"Book Rental API Status",
		fmt.Sprintf("Uptime: %s", uptime),
		fmt.Sprintf("DB: %s", dbState),
		fmt.Sprintf("DB open connections: %d (in use %d, waits %d)", stats.OpenConnections, stats.InUse, stats.WaitCount),
		fmt.Sprintf("HTTP active requests: %d", activeHTTP),
		fmt.Sprintf("HTTP total requests: %d (5xx %d)", totalHTTP, serverErrors),
		fmt.Sprintf("Goroutines: %d", runtime.NumGoroutine()),
	}, "\n")
}

// StorageText reports where the disk is going: uploaded book images and
// the database itself.
func (s *Service) StorageText(ctx context.Context) string {
	var dbSizeBytes int64
	_ = s.db.QueryRowContext(ctx, `SELECT COALESCE(pg_database_size(current_database()), 0)`).Scan(&dbSizeBytes)

	uploadsBytes, uploadsFiles := dirUsage(s.uploadsRoot)
	fsTotal, fsFree := fsUsage(s.uploadsRoot)

	return strings.Join([]string{
		"Book Rental Storage",
		fmt.Sprintf("PostgreSQL DB size: %s", formatBytes(dbSizeBytes)),
		fmt.Sprintf("Uploads folder size (%s): %s", s.uploadsRoot, formatBytes(uploadsBytes)),
		fmt.Sprintf("Uploads files count: %d", uploadsFiles),
		fmt.Sprintf("Uploads disk free: %s", formatBytes(int64(fsFree))),
		fmt.Sprintf("Uploads disk total: %s", formatBytes(int64(fsTotal))),
	}, "\n")
}

func (s *Service) Snapshot(ctx context.Context) Snapshot {
	stats := s.db.Stats()
	activeHTTP, totalHTTP, serverErrors := requestCounts()
	uploadsBytes, uploadsFiles := dirUsage(s.uploadsRoot)
	fsTotal, fsFree := fsUsage(s.uploadsRoot)
	uploads := uploadStats()

	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	snap := Snapshot{
		TimestampUTC:        time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds:       int64(time.Since(s.startedAt).Seconds()),
		HTTPActiveRequests:  activeHTTP,
		HTTPTotalRequests:   totalHTTP,
		HTTPServerErrors:    serverErrors,
		DBOpenConnections:   stats.OpenConnections,
		DBInUseConnections:  stats.InUse,
		DBWaitCount:         int64(stats.WaitCount),
		Goroutines:          runtime.NumGoroutine(),
		GoMemoryAllocBytes:  memory.Alloc,
		GoHeapInUseBytes:    memory.HeapInuse,
		GoGCCount:           memory.NumGC,
		UploadsSizeBytes:    uploadsBytes,
		UploadsFilesCount:   uploadsFiles,
		UploadsFSTotalBytes: fsTotal,
		UploadsFSFreeBytes:  fsFree,
		UploadRequests:      uploads.RequestsTotal,
		UploadFailures:      uploads.FailedTotal,
		UploadBytesTotal:    uploads.BytesTotal,
		UploadAvgDurationMS: uploads.AvgDurationMS,
	}

	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&snap.UsersTotal)
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&snap.BooksTotal)
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE renter_id IS NOT NULL`).Scan(&snap.BooksRented)
	_ = s.db.QueryRowContext(ctx, `SELECT COALESCE(pg_database_size(current_database()), 0)`).Scan(&snap.DBSizeBytes)

	return snap
}

func dirUsage(root string) (totalBytes int64, files int64) {
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		totalBytes += info.Size()
		files++
		return nil
	})
	return totalBytes, files
}

func formatBytes(value int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(value)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d %s", value, units[unit])
	}
	return fmt.Sprintf("%.2f %s", size, units[unit])
}
