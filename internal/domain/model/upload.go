package model

import "time"

// UploadRecord is one check run write, kept in the optional upload ledger.
type UploadRecord struct {
	ID           int64
	InvocationID string
	Repository   string
	HeadSHA      string
	CheckName    string
	CheckRunID   int64
	Action       UploadAction
	BatchIndex   int // 0-based.
	BatchSize    int
	TotalCount   int
	Conclusion   Conclusion
	RecordedAt   time.Time
}
