// Package pgvector backs the vector store with PostgreSQL and the
// pgvector extension. This is the production backend; the embedded
// alternatives lose their index on restart.
package pgvector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandevgo/ragchat/internal/core"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string, dimensions int) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := initSchema(ctx, pool, dimensions); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool, dimensions int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS document_chunks (
			id        text PRIMARY KEY,
			source    text NOT NULL DEFAULT '',
			content   text NOT NULL,
			embedding vector(%d) NOT NULL
		)`, dimensions),
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, docs []core.Document) error {
	batch := &pgx.Batch{}
	for _, doc := range docs {
		batch.Queue(
			`INSERT INTO document_chunks (id, source, content, embedding)
			 VALUES ($1, $2, $3, $4::vector)
			 ON CONFLICT (id) DO UPDATE
			 SET source = EXCLUDED.source, content = EXCLUDED.content, embedding = EXCLUDED.embedding`,
			doc.ID, doc.Source, doc.Content, vectorLiteral(doc.Embedding),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert chunk: %w", err)
		}
	}
	return nil
}

func (s *Store) Search(ctx context.Context, embedding []float32, k int) ([]core.Fragment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT content, source, 1 - (embedding <=> $1::vector) AS score
		 FROM document_chunks
		 ORDER BY embedding <=> $1::vector
		 LIMIT $2`,
		vectorLiteral(embedding), k,
	)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var fragments []core.Fragment
	for rows.Next() {
		var f core.Fragment
		var score float64
		if err := rows.Scan(&f.Content, &f.Source, &score); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		f.Score = float32(score)
		fragments = append(fragments, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fragments, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// vectorLiteral renders a float32 slice in pgvector's input format,
// e.g. "[0.1,0.2,0.3]".
func vectorLiteral(vec []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
