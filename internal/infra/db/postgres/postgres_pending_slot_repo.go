package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.PendingSlotRepository = (*pendingSlotRepo)(nil)

type pendingSlotRepo struct {
	pool *pgxpool.Pool
}

func NewPendingSlotRepo(pool *pgxpool.Pool) repository.PendingSlotRepository {
	return &pendingSlotRepo{pool: pool}
}

const slotColumns = `id, plan_id, status, description, created_at, used_at`

// CreateBatch queues one INSERT per slot and sends them in a single batch.
// Inside a transaction the batch is all-or-nothing with the rest of the unit.
func (r *pendingSlotRepo) CreateBatch(ctx context.Context, tx repository.Tx, slots []*model.PendingSlot) error {
	if len(slots) == 0 {
		return nil
	}
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO pending_slots (plan_id, status, description, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id;`
	batch := &pgx.Batch{}
	for _, s := range slots {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		if s.Status == "" {
			s.Status = model.SlotStatusUnused
		}
		batch.Queue(q, s.PlanID, string(s.Status), s.Description, s.CreatedAt)
	}

	br := ex.SendBatch(ctx, batch)
	defer br.Close()
	for _, s := range slots {
		if err := br.QueryRow().Scan(&s.ID); err != nil {
			return translate(err, domain.EntityPlan)
		}
	}
	return translate(br.Close(), "")
}

func (r *pendingSlotRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.PendingSlot, error) {
	return r.queryOne(ctx, tx, `SELECT `+slotColumns+` FROM pending_slots WHERE id=$1;`, id)
}

func (r *pendingSlotRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id int64) (*model.PendingSlot, error) {
	if _, ok := tx.(pgx.Tx); !ok {
		return nil, domain.ErrInvalidExecContext
	}
	return r.queryOne(ctx, tx, `SELECT `+slotColumns+` FROM pending_slots WHERE id=$1 FOR UPDATE;`, id)
}

func (r *pendingSlotRepo) ListAvailableByPlan(ctx context.Context, tx repository.Tx, planID int64) ([]*model.PendingSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM pending_slots WHERE plan_id=$1 AND status='unused' ORDER BY id;`
	return r.queryMany(ctx, tx, q, planID)
}

func (r *pendingSlotRepo) ListByPlan(ctx context.Context, tx repository.Tx, planID int64) ([]*model.PendingSlot, error) {
	return r.queryMany(ctx, tx, `SELECT `+slotColumns+` FROM pending_slots WHERE plan_id=$1 ORDER BY id;`, planID)
}

// MarkUsed only touches a slot that is still unused, so two racing activations that both
// slipped past the row lock cannot both retire it.
func (r *pendingSlotRepo) MarkUsed(ctx context.Context, tx repository.Tx, id int64, at time.Time) error {
	const q = `UPDATE pending_slots SET status='used', used_at=$2 WHERE id=$1 AND status='unused';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, at)
	if err != nil {
		return translate(err, domain.EntitySlot)
	}
	if tag.RowsAffected() == 0 {
		if _, ferr := r.FindByID(ctx, tx, id); ferr != nil {
			return ferr
		}
		return domain.ErrAlreadyUsed
	}
	return nil
}

func (r *pendingSlotRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SlotStatus]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT status, COUNT(*) FROM pending_slots GROUP BY status;`)
	if err != nil {
		return nil, translate(err, "")
	}
	defer rows.Close()

	counts := make(map[model.SlotStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if st := model.SlotStatus(status); st.Valid() {
			counts[st] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *pendingSlotRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.PendingSlot, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	s, err := scanSlot(row)
	if err != nil {
		return nil, translate(err, domain.EntitySlot)
	}
	return s, nil
}

func (r *pendingSlotRepo) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...any) ([]*model.PendingSlot, error) {
	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, translate(err, "")
	}
	defer rows.Close()

	out := make([]*model.PendingSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanSlot(row scanner) (*model.PendingSlot, error) {
	var s model.PendingSlot
	var status string
	if err := row.Scan(&s.ID, &s.PlanID, &status, &s.Description, &s.CreatedAt, &s.UsedAt); err != nil {
		return nil, err
	}
	s.Status = model.SlotStatus(status)
	if !s.Status.Valid() {
		return nil, domain.ErrInvalidState
	}
	return &s, nil
}
