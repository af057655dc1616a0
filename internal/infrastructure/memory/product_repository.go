package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos sobre memdb. Guarda y devuelve copias: nadie fuera del repo comparte
// punteros con los objetos indexados.
type ProductRepo struct {
	db  *memdb.MemDB
	txn *memdb.Txn
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return write(r.db, r.txn, func(txn *memdb.Txn) error {
		existing, err := txn.First(tableProducts, "id", product.ID)
		if err != nil {
			return fmt.Errorf("memdb: buscar producto: %w", err)
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		cp := *product
		if err := txn.Insert(tableProducts, &cp); err != nil {
			return fmt.Errorf("memdb: insertar producto: %w", err)
		}
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.get(read(r.db, r.txn), id)
}

// GetForUpdate dentro de TxRunner el escritor ya tiene acceso exclusivo; equivale a GetByID.
func (r *ProductRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return r.get(read(r.db, r.txn), id)
}

func (r *ProductRepo) get(txn *memdb.Txn, id string) (*entity.Product, error) {
	raw, err := txn.First(tableProducts, "id", id)
	if err != nil {
		return nil, fmt.Errorf("memdb: obtener producto: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	cp := *raw.(*entity.Product)
	return &cp, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return write(r.db, r.txn, func(txn *memdb.Txn) error {
		existing, err := txn.First(tableProducts, "id", product.ID)
		if err != nil {
			return fmt.Errorf("memdb: buscar producto: %w", err)
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		cp := *product
		cp.CreatedAt = existing.(*entity.Product).CreatedAt
		if err := txn.Insert(tableProducts, &cp); err != nil {
			return fmt.Errorf("memdb: actualizar producto: %w", err)
		}
		return nil
	})
}

func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int, updatedAt time.Time) error {
	return write(r.db, r.txn, func(txn *memdb.Txn) error {
		existing, err := txn.First(tableProducts, "id", id)
		if err != nil {
			return fmt.Errorf("memdb: buscar producto: %w", err)
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		cp := *existing.(*entity.Product)
		cp.Quantity = quantity
		cp.UpdatedAt = updatedAt
		if err := txn.Insert(tableProducts, &cp); err != nil {
			return fmt.Errorf("memdb: actualizar cantidad: %w", err)
		}
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return write(r.db, r.txn, func(txn *memdb.Txn) error {
		existing, err := txn.First(tableProducts, "id", id)
		if err != nil {
			return fmt.Errorf("memdb: buscar producto: %w", err)
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if err := txn.Delete(tableProducts, existing); err != nil {
			return fmt.Errorf("memdb: eliminar producto: %w", err)
		}
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	all, err := r.scan(func(*entity.Product) bool { return true })
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *ProductRepo) Search(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	return r.scan(func(p *entity.Product) bool { return inventory.Matches(p, f) })
}

func (r *ProductRepo) Categories(_ context.Context) ([]string, error) {
	all, err := r.scan(func(p *entity.Product) bool { return strings.TrimSpace(p.Category) != "" })
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range all {
		c := strings.TrimSpace(p.Category)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// scan recorre el índice id; con ids UUIDv7 es orden de creación.
func (r *ProductRepo) scan(keep func(*entity.Product) bool) ([]*entity.Product, error) {
	it, err := read(r.db, r.txn).Get(tableProducts, "id")
	if err != nil {
		return nil, fmt.Errorf("memdb: listar productos: %w", err)
	}
	var out []*entity.Product
	for raw := it.Next(); raw != nil; raw = it.Next() {
		p := raw.(*entity.Product)
		if !keep(p) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
