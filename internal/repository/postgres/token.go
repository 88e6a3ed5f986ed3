package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-booking/internal/repository"
)

type tokenRepository struct {
	BaseRepository
}

func NewTokenRepository(base BaseRepository) repository.TokenRepository {
	return &tokenRepository{base}
}

func (r *tokenRepository) StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM user_tokens WHERE user_id = $1 AND type = 'reset'`, userID,
		); err != nil {
			return fmt.Errorf("failed to clear reset tokens: %w", err)
		}

		query := `
			INSERT INTO user_tokens (token, user_id, type, expires_at, created_at)
			VALUES ($1, $2, 'reset', $3, NOW())
		`
		if _, err := tx.ExecContext(ctx, query, token, userID, expiry); err != nil {
			return fmt.Errorf("failed to store reset token: %w", err)
		}
		return nil
	})
}

// ConsumeResetToken marks a valid reset token used and returns its owner.
func (r *tokenRepository) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	query := `
		UPDATE user_tokens
		SET used_at = NOW()
		WHERE token = $1
		AND type = 'reset'
		AND expires_at > NOW()
		AND used_at IS NULL
		RETURNING user_id
	`

	var userID uuid.UUID
	if err := r.db.GetContext(ctx, &userID, query, token); err != nil {
		return uuid.Nil, notFound(err, "reset token")
	}
	return userID, nil
}
