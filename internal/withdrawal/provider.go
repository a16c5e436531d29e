package withdrawal

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Provider is a supported bank or mobile-money operator together with its
// account-number format rules.
type Provider struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Kind           MethodType `json:"kind"`
	Country        string     `json:"country"`
	AccountPattern string     `json:"accountPattern,omitempty"`
	MinLength      int        `json:"minLength,omitempty"`
	MaxLength      int        `json:"maxLength,omitempty"`
}

// Catalog groups providers the way the dashboard renders them.
type Catalog struct {
	Banks       []Provider `json:"banks"`
	MobileMoney []Provider `json:"mobileMoney"`
}

// ProviderCatalog resolves payout providers.
type ProviderCatalog interface {
	ByCountry(ctx context.Context, country string) (Catalog, error)
	Get(ctx context.Context, id string) (Provider, error)
}

// PostgresProviderCatalog reads the provider catalog from PostgreSQL.
type PostgresProviderCatalog struct {
	db *pgxpool.Pool
}

// NewPostgresProviderCatalog builds a catalog backed by PostgreSQL.
func NewPostgresProviderCatalog(db *pgxpool.Pool) *PostgresProviderCatalog {
	return &PostgresProviderCatalog{db: db}
}

// ByCountry returns the categorized provider catalog for a country.
func (r *PostgresProviderCatalog) ByCountry(ctx context.Context, country string) (Catalog, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, kind, country, account_pattern, min_length, max_length
        FROM withdrawal_providers WHERE country = $1 ORDER BY name`, country)
	if err != nil {
		return Catalog{}, err
	}
	defer rows.Close()

	var catalog Catalog
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Country, &p.AccountPattern, &p.MinLength, &p.MaxLength); err != nil {
			return Catalog{}, err
		}
		switch p.Kind {
		case MethodBank:
			catalog.Banks = append(catalog.Banks, p)
		case MethodMobileMoney:
			catalog.MobileMoney = append(catalog.MobileMoney, p)
		}
	}
	return catalog, rows.Err()
}

// Get resolves a provider by identifier.
func (r *PostgresProviderCatalog) Get(ctx context.Context, id string) (Provider, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, kind, country, account_pattern, min_length, max_length
        FROM withdrawal_providers WHERE id = $1`, id)
	var p Provider
	if err := row.Scan(&p.ID, &p.Name, &p.Kind, &p.Country, &p.AccountPattern, &p.MinLength, &p.MaxLength); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Provider{}, ErrProviderNotFound
		}
		return Provider{}, err
	}
	return p, nil
}

type memoryProviderCatalog struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewMemoryProviderCatalog builds an in-memory catalog seeded with the given
// providers.
func NewMemoryProviderCatalog(providers ...Provider) ProviderCatalog {
	m := &memoryProviderCatalog{providers: make(map[string]Provider)}
	for _, p := range providers {
		m.providers[p.ID] = p
	}
	return m
}

func (r *memoryProviderCatalog) ByCountry(_ context.Context, country string) (Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var catalog Catalog
	for _, p := range r.providers {
		if p.Country != country {
			continue
		}
		switch p.Kind {
		case MethodBank:
			catalog.Banks = append(catalog.Banks, p)
		case MethodMobileMoney:
			catalog.MobileMoney = append(catalog.MobileMoney, p)
		}
	}
	return catalog, nil
}

func (r *memoryProviderCatalog) Get(_ context.Context, id string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return Provider{}, ErrProviderNotFound
	}
	return p, nil
}
