package infrastructure

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNilEntity       = errors.New("entity must not be nil")
	ErrUnsavedIdentity = errors.New("entity has no persisted identity")
)

type changeOp int

const (
	opInsert changeOp = iota
	opUpdate
	opDelete
)

type change[T any] struct {
	op   changeOp
	rows []*T
}

// identified is satisfied by every entity through the embedded Base.
type identified interface {
	GetID() uuid.UUID
}

// Repository is the single point of access to one entity type's collection.
// Reads go straight to the store through the owning unit of work's current
// session; writes are staged in memory and only reach storage when that unit
// of work saves. The repository holds no transaction of its own.
type Repository[T any] struct {
	uow     *UnitOfWork
	pending []change[T]
}

func newRepository[T any](uow *UnitOfWork) *Repository[T] {
	return &Repository[T]{uow: uow}
}

// GetByID returns the entity or nil when no row matches; absence is not an
// error.
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var out T
	err := r.uow.session().WithContext(ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get by id")
	}
	return &out, nil
}

func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.uow.session().WithContext(ctx).Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "get all")
	}
	return out, nil
}

// Find filters on arbitrary columns. The query takes anything the underlying
// ORM accepts as a condition: a SQL fragment with placeholders, a column map,
// or a partially populated entity.
func (r *Repository[T]) Find(ctx context.Context, query interface{}, args ...interface{}) ([]T, error) {
	var out []T
	if err := r.uow.session().WithContext(ctx).Where(query, args...).Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "find")
	}
	return out, nil
}

func (r *Repository[T]) Count(ctx context.Context, conds ...interface{}) (int64, error) {
	var model T
	var n int64
	tx := r.uow.session().WithContext(ctx).Model(&model)
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	if err := tx.Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return n, nil
}

func (r *Repository[T]) Exists(ctx context.Context, query interface{}, args ...interface{}) (bool, error) {
	n, err := r.Count(ctx, append([]interface{}{query}, args...)...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Add stages an entity for insertion on the next save.
func (r *Repository[T]) Add(entity *T) error {
	if entity == nil {
		return ErrNilEntity
	}
	r.stage(opInsert, []*T{entity})
	return nil
}

// AddRange stages a batch for insertion. A nil slice is rejected; an empty one
// is a no-op.
func (r *Repository[T]) AddRange(entities []*T) error {
	if entities == nil {
		return ErrNilEntity
	}
	if len(entities) == 0 {
		return nil
	}
	for _, e := range entities {
		if e == nil {
			return ErrNilEntity
		}
	}
	r.stage(opInsert, entities)
	return nil
}

// Update stages a modification; the entity must already carry a persisted
// identity.
func (r *Repository[T]) Update(entity *T) error {
	if entity == nil {
		return ErrNilEntity
	}
	return r.UpdateRange([]*T{entity})
}

func (r *Repository[T]) UpdateRange(entities []*T) error {
	if entities == nil {
		return ErrNilEntity
	}
	if len(entities) == 0 {
		return nil
	}
	for _, e := range entities {
		if e == nil {
			return ErrNilEntity
		}
		id, ok := any(e).(identified)
		if !ok || id.GetID() == uuid.Nil {
			return ErrUnsavedIdentity
		}
	}
	r.stage(opUpdate, entities)
	return nil
}

// Delete stages a removal. Cascade and restrict behavior is enforced by the
// schema's foreign keys when the unit of work saves.
func (r *Repository[T]) Delete(entity *T) error {
	if entity == nil {
		return ErrNilEntity
	}
	return r.DeleteRange([]*T{entity})
}

func (r *Repository[T]) DeleteRange(entities []*T) error {
	if entities == nil {
		return ErrNilEntity
	}
	if len(entities) == 0 {
		return nil
	}
	for _, e := range entities {
		if e == nil {
			return ErrNilEntity
		}
		id, ok := any(e).(identified)
		if !ok || id.GetID() == uuid.Nil {
			return ErrUnsavedIdentity
		}
	}
	r.stage(opDelete, entities)
	return nil
}

func (r *Repository[T]) stage(op changeOp, rows []*T) {
	// consecutive operations of the same kind coalesce into one batch
	if n := len(r.pending); n > 0 && r.pending[n-1].op == op {
		r.pending[n-1].rows = append(r.pending[n-1].rows, rows...)
		return
	}
	r.pending = append(r.pending, change[T]{op: op, rows: rows})
}

func (r *Repository[T]) pendingCount() int {
	n := 0
	for _, c := range r.pending {
		n += len(c.rows)
	}
	return n
}

// flush applies the staged changes in staging order inside tx. It does not
// clear the staging area; the unit of work does that once every repository
// flushed successfully.
func (r *Repository[T]) flush(ctx context.Context, tx *gorm.DB) (int64, error) {
	var affected int64
	for _, c := range r.pending {
		switch c.op {
		case opInsert:
			res := tx.WithContext(ctx).Create(c.rows)
			if res.Error != nil {
				return affected, res.Error
			}
			affected += res.RowsAffected
		case opUpdate:
			for _, row := range c.rows {
				res := tx.WithContext(ctx).Save(row)
				if res.Error != nil {
					return affected, res.Error
				}
				affected += res.RowsAffected
			}
		case opDelete:
			for _, row := range c.rows {
				res := tx.WithContext(ctx).Delete(row)
				if res.Error != nil {
					return affected, res.Error
				}
				affected += res.RowsAffected
			}
		}
	}
	return affected, nil
}

func (r *Repository[T]) clear() { r.pending = nil }
