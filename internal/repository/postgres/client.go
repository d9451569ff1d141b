package postgres

import (
	"context"
	"database/sql"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
)

type clientRepository struct {
	db *sql.DB
}

func (r *clientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT id, first_name, last_name, COALESCE(document_type, ''), COALESCE(document_number, ''), COALESCE(email, ''), COALESCE(phone, '')
	          FROM clients ORDER BY last_name, first_name`
	logger.DatabaseCall(ctx, "clients.ListAll")

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult(ctx, "clients.ListAll", 0, err)
		return nil, err
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DocumentType, &c.DocumentNumber, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(ctx, "clients.ListAll", int64(len(clients)), nil)
	return clients, nil
}
