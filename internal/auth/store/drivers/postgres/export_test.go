package postgres

import "context"

// Truncate empties every table and resets the id sequences.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE refresh_tokens, users RESTART IDENTITY CASCADE`)
	return err
}
