package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pawtraits/internal/core/domain/model/kernel"
)

// GetDownloadsQueryHandler lists the still-active download grants of one
// order straight from the order_items table.
type GetDownloadsQueryHandler struct {
	db *gorm.DB
}

// NewGetDownloadsQueryHandler creates a handler for download listings.
// Requires a GORM database connection for query execution.
func NewGetDownloadsQueryHandler(db *gorm.DB) GetDownloadsQueryHandler {
	return GetDownloadsQueryHandler{db: db}
}

// Handle executes the downloads projection for one order.
// Items whose download window has closed are filtered out; an order with no
// active grants yields an empty slice, not an error.
func (h GetDownloadsQueryHandler) Handle(
	ctx context.Context,
	query GetDownloadsQuery,
) ([]GetDownloadsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	downloads := make([]GetDownloadsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			download_url,
			digital_file_format,
			digital_file_size_bytes,
			download_expires_at,
			download_access_count
		FROM order_items
		WHERE order_id = ?
		  AND is_digital
		  AND download_url <> ''
		  AND download_expires_at > ?
		ORDER BY id
	`, query.OrderID().Bytes(), query.Now()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var download GetDownloadsQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&download.DownloadURL,
			&download.Format,
			&download.FileSizeBytes,
			&download.ExpiresAt,
			&download.AccessCount,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		download.ItemID = itemID
		download.ExpiresAt = download.ExpiresAt.UTC()

		downloads = append(downloads, download)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return downloads, nil
}
