package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

const notifyKey = "email_notify"

// GetNotify reports the employer's email notification preference. It
// defaults to on.
func (d *DB) GetNotify(ctx context.Context) (bool, error) {
	var v string
	err := d.Pool.QueryRowContext(ctx, `SELECT value FROM employer_settings WHERE key = ?;`, notifyKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get notify: %w", err)
	}
	return strconv.ParseBool(v)
}

func (d *DB) SetNotify(ctx context.Context, on bool) error {
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO employer_settings(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, notifyKey, strconv.FormatBool(on))
	if err != nil {
		return fmt.Errorf("set notify: %w", err)
	}
	return nil
}
