package booking

import (
	"time"

	"github.com/google/uuid"
)

// Document is the 1:1 attachment of a booking: references to condition photos
// taken at pickup and drop-off plus free-text notes. Only opaque storage paths
// are kept here; the binary content lives with the document storage service.
type Document struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	CarPickDocs     []string
	PersonPickDocs  []string
	CarDropDocs     []string
	PersonDropDocs  []string
	PickDescription *string
	DropDescription *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DocumentPatch follows the same absence-means-unchanged contract as the
// booking patch. The row is created lazily on first upload.
type DocumentPatch struct {
	CarPickDocs     *[]string
	PersonPickDocs  *[]string
	CarDropDocs     *[]string
	PersonDropDocs  *[]string
	PickDescription *string
	DropDescription *string
}

func (p DocumentPatch) IsEmpty() bool {
	return p.CarPickDocs == nil && p.PersonPickDocs == nil &&
		p.CarDropDocs == nil && p.PersonDropDocs == nil &&
		p.PickDescription == nil && p.DropDescription == nil
}
