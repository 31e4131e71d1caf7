package fulfillment

import (
	"time"

	"pawtraits/internal/core/domain/model/kernel"
)

// DownloadGrant is a time-limited digital download authorization issued for
// one (item, image) pair. Grants are ephemeral: the authoritative persisted
// projection is the subset of fields copied onto the order item row, and when
// one item produces several grants only the last one survives there.
type DownloadGrant struct {
	OrderItemID   kernel.UUID
	DownloadURL   string
	Format        string
	ExpiresAt     time.Time
	FileSizeBytes int64
	FileName      string
}

// TrackingInfo renders the grant as the flat map embedded in a fulfillment
// result's tracking payload.
func (g DownloadGrant) TrackingInfo() map[string]any {
	return map[string]any{
		"order_item_id":   g.OrderItemID.String(),
		"download_url":    g.DownloadURL,
		"format":          g.Format,
		"expires_at":      g.ExpiresAt.UTC().Format(time.RFC3339),
		"file_size_bytes": g.FileSizeBytes,
		"file_name":       g.FileName,
	}
}
