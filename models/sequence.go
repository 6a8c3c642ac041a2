package models

// SequenceCounter is a per-category monotonic counter used to mint
// human-readable work-order codes, invoice numbers and QR labels.
// Categories are provisioned at startup, never created lazily.
type SequenceCounter struct {
	Category string `gorm:"primary_key"`
	Value    int64  `gorm:"not null;default:0"`
}
