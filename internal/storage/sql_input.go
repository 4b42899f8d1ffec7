package storage

import (
	"context"
	"fmt"

	"peoplemover/internal/domain"
)

// SQLSourceStore implements domain.SourceStore on a relational database.
type SQLSourceStore struct {
	db *sqlDB
}

func (s *SQLSourceStore) CreateSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		name VARCHAR(80),
		nickname VARCHAR(50),
		gender VARCHAR(6),
		age INTEGER
	)`, inputTable, s.db.d.idColumn)
	if _, err := s.db.conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s schema: %w", inputTable, err)
	}
	return nil
}

func (s *SQLSourceStore) DropSchema(ctx context.Context) error {
	if _, err := s.db.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+inputTable); err != nil {
		return fmt.Errorf("drop %s schema: %w", inputTable, err)
	}
	return nil
}

func (s *SQLSourceStore) Insert(ctx context.Context, p *domain.Person) error {
	if s.db.d.numbered {
		query := s.db.bind("INSERT INTO " + inputTable + " (name, nickname, gender, age) VALUES (?, ?, ?, ?) RETURNING id")
		return storeErr(s.db.conn.QueryRowContext(ctx, query, p.Name, p.Nickname, p.Gender, p.Age).Scan(&p.ID))
	}

	res, err := s.db.conn.ExecContext(ctx,
		"INSERT INTO "+inputTable+" (name, nickname, gender, age) VALUES (?, ?, ?, ?)",
		p.Name, p.Nickname, p.Gender, p.Age,
	)
	if err != nil {
		return storeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	p.ID = id
	return nil
}

// InsertMany writes all records inside one transaction, committed at the end.
func (s *SQLSourceStore) InsertMany(ctx context.Context, people []domain.Person) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		s.db.bind("INSERT INTO "+inputTable+" (name, nickname, gender, age) VALUES (?, ?, ?, ?)"))
	if err != nil {
		return storeErr(err)
	}
	defer stmt.Close()

	for i, p := range people {
		if _, err := stmt.ExecContext(ctx, p.Name, p.Nickname, p.Gender, p.Age); err != nil {
			return fmt.Errorf("insert row %d: %w", i, storeErr(err))
		}
	}

	return tx.Commit()
}

func (s *SQLSourceStore) QueryAll(ctx context.Context) ([]domain.Person, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		"SELECT id, name, nickname, gender, age FROM "+inputTable+" ORDER BY id ASC")
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var result []domain.Person
	for rows.Next() {
		p := domain.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Nickname, &p.Gender, &p.Age); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *SQLSourceStore) Close() error {
	return s.db.Close()
}

var _ domain.SourceStore = (*SQLSourceStore)(nil)
