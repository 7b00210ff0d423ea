package repository

import (
	"database/sql"
	"fmt"
	"time"

	"smarticket-api/model"

	"github.com/google/uuid"
)

const eventColumns = "event_id, name, description, type, date, contract_address, ticket_price, promoter_id"

type EventRepository interface {
	Create(event *model.Event) error
	GetAll() ([]model.Event, error)
	GetByID(eventID string) (*model.Event, bool, error)
	Update(event *model.Event) error
	Delete(eventID string) error
	NameExists(name string) (bool, error)
	GetFutureEvents() ([]model.Event, error)
	GetEventsOfType(eventType string) ([]model.Event, error)
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

type eventRepository struct {
	db *sql.DB
}

func (r *eventRepository) Create(event *model.Event) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	stmt, err := r.db.Prepare(fmt.Sprintf(`INSERT INTO Events (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`, eventColumns))
	if err != nil {
		return fmt.Errorf("create: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.EventID, event.Name, event.Description, event.Type, event.Date, event.ContractAddress, event.TicketPrice, event.PromoterID)
	if err != nil {
		return fmt.Errorf("create: unable to insert event: %w", err)
	}

	return nil
}

func (r *eventRepository) GetAll() ([]model.Event, error) {
	return r.list(fmt.Sprintf(`SELECT %s FROM Events`, eventColumns))
}

func (r *eventRepository) GetFutureEvents() ([]model.Event, error) {
	return r.list(fmt.Sprintf(`SELECT %s FROM Events WHERE date >= ?`, eventColumns), time.Now().UTC())
}

func (r *eventRepository) GetEventsOfType(eventType string) ([]model.Event, error) {
	return r.list(fmt.Sprintf(`SELECT %s FROM Events WHERE type = ?`, eventColumns), eventType)
}

func (r *eventRepository) GetByID(eventID string) (*model.Event, bool, error) {
	events, err := r.list(fmt.Sprintf(`SELECT %s FROM Events WHERE event_id = ?`, eventColumns), eventID)
	if err != nil {
		return nil, false, err
	}
	if len(events) == 0 {
		return nil, false, nil
	}

	return &events[0], true, nil
}

func (r *eventRepository) Update(event *model.Event) error {
	stmt, err := r.db.Prepare(`UPDATE Events SET name = ?, description = ?, type = ?, date = ?, ticket_price = ? WHERE event_id = ?;`)
	if err != nil {
		return fmt.Errorf("update: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(event.Name, event.Description, event.Type, event.Date, event.TicketPrice, event.EventID)
	if err != nil {
		return fmt.Errorf("update: unable to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update: unable to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return fmt.Errorf("update: %d rows affected: err: %w", rowsAffected, NoRecordFound)
	}

	return nil
}

func (r *eventRepository) Delete(eventID string) error {
	stmt, err := r.db.Prepare(`DELETE FROM Events WHERE event_id = ?;`)
	if err != nil {
		return fmt.Errorf("delete: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(eventID)
	if err != nil {
		return fmt.Errorf("delete: unable to execute query: %w", err)
	}

	return nil
}

// NameExists is a best-effort pre-check; there is no unique index on name.
func (r *eventRepository) NameExists(name string) (bool, error) {
	stmt, err := r.db.Prepare(`SELECT 1 FROM Events WHERE name = ? LIMIT 1`)
	if err != nil {
		return false, fmt.Errorf("nameExists: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(name)
	if err != nil {
		return false, fmt.Errorf("nameExists: unable to execute query: %w", err)
	}
	defer rows.Close()

	return rows.Next(), rows.Err()
}

func (r *eventRepository) list(query string, args ...interface{}) ([]model.Event, error) {
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("list: unable to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("list: unable to execute query: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		err = rows.Scan(&e.EventID, &e.Name, &e.Description, &e.Type, &e.Date, &e.ContractAddress, &e.TicketPrice, &e.PromoterID)
		if err != nil {
			return nil, fmt.Errorf("list: error while scanning row: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
