package readstore

import (
	"context"
	"fmt"
	"strings"

	"iverr-backend/internal/infra"
	"iverr-backend/internal/infra/db"
	"iverr-backend/internal/usecase/queries"
)

type BlockReadStore struct {
	db db.DBTX
}

func NewBlockReadStore(db db.DBTX) *BlockReadStore {
	return &BlockReadStore{db: db}
}

func (r *BlockReadStore) FindByFilter(ctx context.Context, filter queries.BlockFilter) ([]*queries.BlockView, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CarID != nil {
		add("car_id = $%d", *filter.CarID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		add("end_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("start_date <= $%d", *filter.EndDate)
	}

	query := `
		SELECT id, car_id, start_date, end_date, status, special_price_cents, created_at, updated_at
		FROM calendar_blocks`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_date, created_at"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list calendar blocks", err)
	}
	defer rows.Close()

	var result []*queries.BlockView
	for rows.Next() {
		var view queries.BlockView
		err := rows.Scan(
			&view.ID, &view.CarID, &view.StartDate, &view.EndDate,
			&view.Status, &view.SpecialPrice, &view.CreatedAt, &view.UpdatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan calendar block", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read calendar blocks", err)
	}
	return result, nil
}
