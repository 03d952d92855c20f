// package repositories provides persistence layer implementations for the player.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/ytplay/internal/shared"
)

// sequenced lists the tables that own a {table}_sequence counter.
var sequenced = map[string]string{
	"tracks": "UPDATE tracks_sequence SET value = value + 1 WHERE id = 1 RETURNING value",
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers order cached tracks by first sighting. They are not shown in CLI output.
func NextSequence(db *sql.DB, table string) (int, error) {
	query, ok := sequenced[table]
	if !ok {
		return 0, fmt.Errorf("%w: table %q has no sequence", shared.ErrInvalidInput, table)
	}

	var sequence int
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: sequence row for %s is missing", shared.ErrStorage, table)
		}
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	return sequence, nil
}
