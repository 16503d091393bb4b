package monitoring

import (
	"sync/atomic"
	"time"
)

var (
	uploadRequestsTotal       atomic.Uint64
	uploadRequestsFailed      atomic.Uint64
	uploadBytesTotal          atomic.Int64
	uploadDurationMicrosTotal atomic.Uint64
)

type UploadStats struct {
	RequestsTotal uint64
	FailedTotal   uint64
	BytesTotal    int64
	AvgDurationMS float64
}

// RecordUpload accumulates one image upload attempt into the counters
// the snapshot reports.
func RecordUpload(bytes int64, duration time.Duration, success bool) {
	uploadRequestsTotal.Add(1)
	if !success {
		uploadRequestsFailed.Add(1)
	}
	if bytes > 0 {
		uploadBytesTotal.Add(bytes)
	}
	if duration > 0 {
		uploadDurationMicrosTotal.Add(uint64(duration / time.Microsecond))
	}
}

func uploadStats() UploadStats {
	total := uploadRequestsTotal.Load()
	avgDurationMS := 0.0
	if total > 0 {
		avgDurationMS = float64(uploadDurationMicrosTotal.Load()) / float64(total) / 1000.0
	}
	return UploadStats{
		RequestsTotal: total,
		FailedTotal:   uploadRequestsFailed.Load(),
		BytesTotal:    uploadBytesTotal.Load(),
		AvgDurationMS: avgDurationMS,
	}
}
