package repository

import (
	"context"

	"iverr-backend/internal/domain/booking"
	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/pkg/patch"

	"github.com/google/uuid"
)

type DocumentRepository struct{}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

// Upsert merges the patch over the existing row (if any) and writes the
// result, creating the row lazily on first upload. Runs inside the booking
// transaction, so read-merge-write is safe here.
func (r *DocumentRepository) Upsert(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID, docPatch booking.DocumentPatch) error {
	current, err := r.findByBookingID(ctx, dbtx, bookingID)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
		current = &booking.Document{ID: uuid.New(), BookingID: bookingID}
	}

	current.CarPickDocs = patch.Coalesce(docPatch.CarPickDocs, current.CarPickDocs)
	current.PersonPickDocs = patch.Coalesce(docPatch.PersonPickDocs, current.PersonPickDocs)
	current.CarDropDocs = patch.Coalesce(docPatch.CarDropDocs, current.CarDropDocs)
	current.PersonDropDocs = patch.Coalesce(docPatch.PersonDropDocs, current.PersonDropDocs)
	if docPatch.PickDescription != nil {
		current.PickDescription = docPatch.PickDescription
	}
	if docPatch.DropDescription != nil {
		current.DropDescription = docPatch.DropDescription
	}

	_, err = dbtx.Exec(ctx, `
		INSERT INTO booking_documents (
			id, booking_id, car_pick_docs, person_pick_docs, car_drop_docs,
			person_drop_docs, pick_description, drop_description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (booking_id) DO UPDATE SET
			car_pick_docs = EXCLUDED.car_pick_docs,
			person_pick_docs = EXCLUDED.person_pick_docs,
			car_drop_docs = EXCLUDED.car_drop_docs,
			person_drop_docs = EXCLUDED.person_drop_docs,
			pick_description = EXCLUDED.pick_description,
			drop_description = EXCLUDED.drop_description,
			updated_at = now()`,
		current.ID, current.BookingID,
		current.CarPickDocs, current.PersonPickDocs,
		current.CarDropDocs, current.PersonDropDocs,
		current.PickDescription, current.DropDescription,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert booking document", err)
	}
	return nil
}

func (r *DocumentRepository) DeleteByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) error {
	// Missing row is fine: the document is created lazily.
	_, err := dbtx.Exec(ctx, `DELETE FROM booking_documents WHERE booking_id = $1`, bookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking document", err)
	}
	return nil
}

func (r *DocumentRepository) findByBookingID(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*booking.Document, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, booking_id, car_pick_docs, person_pick_docs, car_drop_docs,
		       person_drop_docs, pick_description, drop_description, created_at, updated_at
		FROM booking_documents WHERE booking_id = $1`,
		bookingID,
	)

	var doc booking.Document
	err := row.Scan(
		&doc.ID, &doc.BookingID,
		&doc.CarPickDocs, &doc.PersonPickDocs, &doc.CarDropDocs, &doc.PersonDropDocs,
		&doc.PickDescription, &doc.DropDescription,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking document not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking document", err)
	}
	return &doc, nil
}
