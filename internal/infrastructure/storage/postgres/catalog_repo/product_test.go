package catalog_repo

import (
	"reflect"
	"testing"
	"time"

	"productdesk/internal/domain/catalogs/product"
)

const productCols = "id, name, encrypted_price, created_at, updated_at"

func TestProductRepo_SearchSQL(t *testing.T) {
	repo := NewProductRepo(nil)

	tests := []struct {
		name     string
		term     string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "empty term lists all",
			term:    "",
			wantSQL: "SELECT " + productCols + " FROM products ORDER BY id",
		},
		{
			name:     "substring",
			term:     "dun",
			wantSQL:  "SELECT " + productCols + ` FROM products WHERE name ILIKE $1 ESCAPE '\' ORDER BY id`,
			wantArgs: []any{"%dun%"},
		},
		{
			name:     "wildcards are literal",
			term:     "100%_off",
			wantSQL:  "SELECT " + productCols + ` FROM products WHERE name ILIKE $1 ESCAPE '\' ORDER BY id`,
			wantArgs: []any{`%100\%\_off%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.searchQuery(tt.term).ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("Arg %d mismatch\nwant: %v\ngot:  %v", i, tt.wantArgs[i], args[i])
				}
			}
		})
	}
}

func TestProductRepo_InsertSQL(t *testing.T) {
	repo := NewProductRepo(nil)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	sql, args, err := repo.insertQuery(product.Record{
		ID:             99,
		Name:           "Dune",
		EncryptedPrice: "k1.abc",
		CreatedAt:      now,
		UpdatedAt:      now,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "INSERT INTO products (created_at,encrypted_price,name,updated_at) VALUES ($1,$2,$3,$4) RETURNING " + productCols
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	wantArgs := []any{now, "k1.abc", "Dune", now}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("Args mismatch\nwant: %v\ngot:  %v", wantArgs, args)
	}
}

func TestProductRepo_UpdateSQL(t *testing.T) {
	repo := NewProductRepo(nil)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	sql, args, err := repo.updateQuery(product.Record{
		ID:             1,
		Name:           "Dune",
		EncryptedPrice: "k1.def",
		CreatedAt:      now.Add(-time.Hour),
		UpdatedAt:      now,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "UPDATE products SET encrypted_price = $1, name = $2, updated_at = $3 WHERE id = $4 RETURNING " + productCols
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	wantArgs := []any{"k1.def", "Dune", now, int64(1)}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("Args mismatch\nwant: %v\ngot:  %v", wantArgs, args)
	}
}
