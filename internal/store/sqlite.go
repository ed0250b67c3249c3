package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        user_id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT NOT NULL,
        email TEXT UNIQUE
    );

    CREATE TABLE IF NOT EXISTS chats (
        chat_id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER,
        user_message TEXT NOT NULL,
        ai_response TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (user_id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) CreateUser(username, email string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (username, email) VALUES (?, ?)", username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted user id: %w", err)
	}
	return &User{UserID: id, Username: username, Email: email}, nil
}

func (s *SQLiteStore) GetUserByID(userID int64) (*User, error) {
	var user User
	var email sql.NullString
	err := s.db.QueryRow("SELECT user_id, username, email FROM users WHERE user_id = ?", userID).
		Scan(&user.UserID, &user.Username, &email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}
	return &user, nil
}

// ChatTurn methods

// CreateChatTurn appends one turn at the given time. The timestamp is stored
// as RFC 3339 text so reads return exactly what was recorded.
func (s *SQLiteStore) CreateChatTurn(userID int64, userMessage, aiResponse string, at time.Time) (*ChatTurn, error) {
	ts := at.Format(time.RFC3339)
	stmt, err := s.db.Prepare("INSERT INTO chats (user_id, user_message, ai_response, timestamp) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare chat insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(userID, userMessage, aiResponse, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted chat id: %w", err)
	}
	return &ChatTurn{
		ChatID:      id,
		UserID:      userID,
		UserMessage: userMessage,
		AIResponse:  aiResponse,
		Timestamp:   ts,
	}, nil
}

// GetChatTurns returns the user's turns ordered by timestamp descending.
// A limit <= 0 means no limit.
func (s *SQLiteStore) GetChatTurns(userID int64, limit int) ([]ChatTurn, error) {
	query := "SELECT chat_id, user_id, user_message, ai_response, timestamp FROM chats WHERE user_id = ? ORDER BY timestamp DESC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var turns []ChatTurn
	for rows.Next() {
		var turn ChatTurn
		var uid sql.NullInt64
		if err := rows.Scan(&turn.ChatID, &uid, &turn.UserMessage, &turn.AIResponse, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		if uid.Valid {
			turn.UserID = uid.Int64
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat rows: %w", err)
	}
	return turns, nil
}
