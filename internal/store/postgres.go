package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/catchkin/VoucherGPT/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDataAccess marks failures reaching the document store. Callers can test
// for it with errors.Is. The store never retries.
var ErrDataAccess = errors.New("document store unavailable")

// DB represents the database connection
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connStr string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Initialize sets up the database tables and indices
func (db *DB) Initialize(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS companies (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            industry VARCHAR(255),
            description TEXT,
            product_categories TEXT,
            export_countries TEXT[],
            target_markets TEXT[],
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create companies table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS documents (
            id BIGSERIAL PRIMARY KEY,
            company_id BIGINT REFERENCES companies(id) ON DELETE CASCADE,
            title VARCHAR(255) NOT NULL,
            type VARCHAR(50) NOT NULL,
            content TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS sections (
            id BIGSERIAL PRIMARY KEY,
            document_id BIGINT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
            type VARCHAR(50) NOT NULL,
            title VARCHAR(255) NOT NULL,
            content TEXT,
            ord INTEGER NOT NULL DEFAULT 0,
            metadata JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create sections table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS chat_history (
            id BIGSERIAL PRIMARY KEY,
            company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
            query TEXT NOT NULL,
            answer TEXT NOT NULL,
            document_ids BIGINT[],
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create chat_history table: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
        CREATE INDEX IF NOT EXISTS documents_company_id_idx ON documents (company_id);
        CREATE INDEX IF NOT EXISTS documents_type_idx ON documents (type);
        CREATE INDEX IF NOT EXISTS sections_document_id_idx ON sections (document_id);
    `)
	if err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	return nil
}

// CreateCompany stores a company and fills in its generated ID.
func (db *DB) CreateCompany(ctx context.Context, company *models.Company) error {
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO companies (name, industry, description, product_categories, export_countries, target_markets)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `,
		company.Name,
		company.Industry,
		company.Description,
		company.ProductCategories,
		company.ExportCountries,
		company.TargetMarkets,
	).Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create company: %w: %w", ErrDataAccess, err)
	}
	return nil
}

// GetCompany loads a single company by ID.
func (db *DB) GetCompany(ctx context.Context, id int64) (models.Company, error) {
	var company models.Company
	err := db.Pool.QueryRow(ctx, `
        SELECT id, name, industry, description, product_categories, export_countries, target_markets, created_at
        FROM companies
        WHERE id = $1
    `, id).Scan(
		&company.ID,
		&company.Name,
		&company.Industry,
		&company.Description,
		&company.ProductCategories,
		&company.ExportCountries,
		&company.TargetMarkets,
		&company.CreatedAt,
	)
	if err != nil {
		return models.Company{}, fmt.Errorf("failed to get company %d: %w: %w", id, ErrDataAccess, err)
	}
	return company, nil
}

// CreateDocument stores a document together with its sections and fills in
// the generated IDs.
func (db *DB) CreateDocument(ctx context.Context, doc *models.Document) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", ErrDataAccess, err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO documents (company_id, title, type, content)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `,
		doc.CompanyID,
		doc.Title,
		string(doc.Type),
		doc.Content,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w: %w", ErrDataAccess, err)
	}

	for i := range doc.Sections {
		sec := &doc.Sections[i]
		sec.DocumentID = doc.ID

		var metadata []byte
		if sec.Metadata != nil {
			metadata, err = json.Marshal(sec.Metadata)
			if err != nil {
				return fmt.Errorf("failed to encode section metadata: %w", err)
			}
		}

		err = tx.QueryRow(ctx, `
            INSERT INTO sections (document_id, type, title, content, ord, metadata)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id, created_at, updated_at
        `,
			sec.DocumentID,
			string(sec.Type),
			sec.Title,
			sec.Content,
			sec.Order,
			metadata,
		).Scan(&sec.ID, &sec.CreatedAt, &sec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create section: %w: %w", ErrDataAccess, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document: %w: %w", ErrDataAccess, err)
	}
	return nil
}

// GetDocument loads a single document by ID with its sections hydrated in
// display order.
func (db *DB) GetDocument(ctx context.Context, id int64) (models.Document, error) {
	var (
		doc     models.Document
		docType string
	)
	err := db.Pool.QueryRow(ctx, `
        SELECT id, company_id, title, type, content, created_at, updated_at
        FROM documents
        WHERE id = $1
    `, id).Scan(
		&doc.ID,
		&doc.CompanyID,
		&doc.Title,
		&docType,
		&doc.Content,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to get document %d: %w: %w", id, ErrDataAccess, err)
	}
	doc.Type = models.ParseDocumentType(docType)

	docs := []models.Document{doc}
	if err := db.attachSections(ctx, docs); err != nil {
		return models.Document{}, err
	}
	return docs[0], nil
}

// GetDocumentsByCompany returns all documents owned by a company, with their
// sections hydrated in display order.
func (db *DB) GetDocumentsByCompany(ctx context.Context, companyID int64) ([]models.Document, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, company_id, title, type, content, created_at, updated_at
        FROM documents
        WHERE company_id = $1
        ORDER BY id
    `, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents by company: %w: %w", ErrDataAccess, err)
	}
	docs, err := processDocumentRows(rows)
	if err != nil {
		return nil, err
	}
	if err := db.attachSections(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocumentsByType returns all documents of a given type regardless of
// owner, with their sections hydrated in display order.
func (db *DB) GetDocumentsByType(ctx context.Context, docType models.DocumentType) ([]models.Document, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, company_id, title, type, content, created_at, updated_at
        FROM documents
        WHERE type = $1
        ORDER BY id
    `, string(docType))
	if err != nil {
		return nil, fmt.Errorf("failed to query documents by type: %w: %w", ErrDataAccess, err)
	}
	docs, err := processDocumentRows(rows)
	if err != nil {
		return nil, err
	}
	if err := db.attachSections(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveChatExchange records a question/answer turn in the chat history.
func (db *DB) SaveChatExchange(ctx context.Context, exchange *models.ChatExchange) error {
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO chat_history (company_id, query, answer, document_ids)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `,
		exchange.CompanyID,
		exchange.Query,
		exchange.Answer,
		exchange.DocumentIDs,
	).Scan(&exchange.ID, &exchange.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat exchange: %w: %w", ErrDataAccess, err)
	}
	return nil
}

func processDocumentRows(rows pgx.Rows) ([]models.Document, error) {
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var (
			doc     models.Document
			docType string
		)
		if err := rows.Scan(
			&doc.ID,
			&doc.CompanyID,
			&doc.Title,
			&docType,
			&doc.Content,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc.Type = models.ParseDocumentType(docType)
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w: %w", ErrDataAccess, err)
	}

	return docs, nil
}

// attachSections hydrates sections for the given documents in one query.
func (db *DB) attachSections(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]int64, len(docs))
	byID := make(map[int64]*models.Document, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
		byID[docs[i].ID] = &docs[i]
	}

	rows, err := db.Pool.Query(ctx, `
        SELECT id, document_id, type, title, content, ord, metadata, created_at, updated_at
        FROM sections
        WHERE document_id = ANY($1)
        ORDER BY document_id, ord
    `, ids)
	if err != nil {
		return fmt.Errorf("failed to query sections: %w: %w", ErrDataAccess, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sec      models.Section
			secType  string
			metadata []byte
		)
		if err := rows.Scan(
			&sec.ID,
			&sec.DocumentID,
			&secType,
			&sec.Title,
			&sec.Content,
			&sec.Order,
			&metadata,
			&sec.CreatedAt,
			&sec.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan section row: %w", err)
		}
		sec.Type = models.ParseSectionType(secType)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &sec.Metadata); err != nil {
				return fmt.Errorf("failed to decode section metadata: %w", err)
			}
		}
		if doc, ok := byID[sec.DocumentID]; ok {
			doc.Sections = append(doc.Sections, sec)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating section rows: %w: %w", ErrDataAccess, err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.Pool.Close()
}
