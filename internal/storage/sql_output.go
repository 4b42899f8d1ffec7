package storage

import (
	"context"
	"fmt"

	"peoplemover/internal/domain"
)

// SQLDestinationStore implements domain.DestinationStore on a relational database.
type SQLDestinationStore struct {
	db *sqlDB
}

func (s *SQLDestinationStore) CreateSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		name VARCHAR(80),
		nickname VARCHAR(50),
		gender VARCHAR(6),
		age INTEGER,
		is_cool BOOLEAN
	)`, outputTable, s.db.d.idColumn)
	if _, err := s.db.conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s schema: %w", outputTable, err)
	}
	return nil
}

func (s *SQLDestinationStore) DropSchema(ctx context.Context) error {
	if _, err := s.db.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+outputTable); err != nil {
		return fmt.Errorf("drop %s schema: %w", outputTable, err)
	}
	return nil
}

func (s *SQLDestinationStore) Insert(ctx context.Context, p *domain.OutputPerson) error {
	if s.db.d.numbered {
		query := s.db.bind("INSERT INTO " + outputTable + " (name, nickname, gender, age, is_cool) VALUES (?, ?, ?, ?, ?) RETURNING id")
		return storeErr(s.db.conn.QueryRowContext(ctx, query, p.Name, p.Nickname, p.Gender, p.Age, p.IsCool).Scan(&p.ID))
	}

	res, err := s.db.conn.ExecContext(ctx,
		"INSERT INTO "+outputTable+" (name, nickname, gender, age, is_cool) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.Nickname, p.Gender, p.Age, p.IsCool,
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
func (s *SQLDestinationStore) InsertMany(ctx context.Context, people []domain.OutputPerson) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		s.db.bind("INSERT INTO "+outputTable+" (name, nickname, gender, age, is_cool) VALUES (?, ?, ?, ?, ?)"))
	if err != nil {
		return storeErr(err)
	}
	defer stmt.Close()

	for i, p := range people {
		if _, err := stmt.ExecContext(ctx, p.Name, p.Nickname, p.Gender, p.Age, p.IsCool); err != nil {
			return fmt.Errorf("insert row %d: %w", i, storeErr(err))
		}
	}

	return tx.Commit()
}

func (s *SQLDestinationStore) QueryAll(ctx context.Context) ([]domain.OutputPerson, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		"SELECT id, name, nickname, gender, age, is_cool FROM "+outputTable+" ORDER BY id ASC")
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var result []domain.OutputPerson
	for rows.Next() {
		p := domain.OutputPerson{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Nickname, &p.Gender, &p.Age, &p.IsCool); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *SQLDestinationStore) Close() error {
	return s.db.Close()
}

var _ domain.DestinationStore = (*SQLDestinationStore)(nil)
