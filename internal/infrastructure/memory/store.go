// Package memory implementa los puertos de persistencia sobre go-memdb, para desarrollo local y tests.
package memory

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

const (
	tableProducts  = "products"
	tableMovements = "stock_movements"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
			tableMovements: {
				Name: tableMovements,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"product": {
						Name:    "product",
						Indexer: &memdb.StringFieldIndex{Field: "ProductID"},
					},
				},
			},
		},
	}
}

// Store base de datos en memoria. Las transacciones de escritura se serializan (un escritor a la vez)
// y las lecturas ven snapshots inmutables.
type Store struct {
	db *memdb.MemDB
}

// NewStore crea una base vacía.
func NewStore() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{db: s.db}
}

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() *StockMovementRepo {
	return &StockMovementRepo{db: s.db}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn dentro de una transacción de escritura de memdb.
type TxRunner struct {
	db *memdb.MemDB
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{db: s.db}
}

// Run confirma solo si fn no devuelve error; en otro caso descarta todos los cambios.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := r.db.Txn(true)
	defer txn.Abort()

	if err := fn(&ProductRepo{db: r.db, txn: txn}, &StockMovementRepo{db: r.db, txn: txn}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// write usa la transacción ligada o abre una propia y la confirma.
func write(db *memdb.MemDB, bound *memdb.Txn, fn func(txn *memdb.Txn) error) error {
	if bound != nil {
		return fn(bound)
	}
	txn := db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// read usa la transacción ligada (ve sus propias escrituras) o un snapshot de lectura.
func read(db *memdb.MemDB, bound *memdb.Txn) *memdb.Txn {
	if bound != nil {
		return bound
	}
	return db.Txn(false)
}
