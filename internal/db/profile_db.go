package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/swaply/barter-api/internal/models"
)

// UpsertTelegramProfile создает профиль для пользователя Telegram
// или обновляет данные существующего
func UpsertTelegramProfile(telegramID int64, username, fullName, avatarURL string) (*models.Profile, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var profileID uuid.UUID
	err := Pool.QueryRow(ctx, `
		INSERT INTO profiles (telegram_id, username, full_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    full_name = EXCLUDED.full_name,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, telegramID, username, fullName, avatarURL).Scan(&profileID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при сохранении профиля: %w", err)
	}

	return GetProfileByID(profileID)
}

// GetProfileByID получает профиль пользователя по ID
func GetProfileByID(profileID uuid.UUID) (*models.Profile, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var profile models.Profile
	var username, fullName, email, avatarURL, pushToken pgtype.Text

	err := Pool.QueryRow(ctx, `
		SELECT id, telegram_id, username, full_name, email, avatar_url, push_token, created_at, updated_at
		FROM profiles WHERE id = $1
	`, profileID).Scan(
		&profile.ID, &profile.TelegramID, &username, &fullName,
		&email, &avatarURL, &pushToken,
		&profile.CreatedAt, &profile.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	// Преобразуем nullable поля
	if username.Valid {
		profile.Username = username.String
	}
	if fullName.Valid {
		profile.FullName = fullName.String
	}
	if email.Valid {
		profile.Email = email.String
	}
	if avatarURL.Valid {
		profile.AvatarURL = avatarURL.String
	}
	if pushToken.Valid {
		profile.PushToken = pushToken.String
	}

	return &profile, nil
}

// UpdateProfile обновляет заполненные поля профиля. Nil-поля
// остаются без изменений
func UpdateProfile(profileID uuid.UUID, fullName, email, avatarURL *string) (*models.Profile, error) {
	ctx, cancel := GetContext()
	defer cancel()

	tag, err := Pool.Exec(ctx, `
		UPDATE profiles
		SET full_name = COALESCE($1, full_name),
		    email = COALESCE($2, email),
		    avatar_url = COALESCE($3, avatar_url),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, fullName, email, avatarURL, profileID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении профиля: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("профиль %s не найден", profileID)
	}

	return GetProfileByID(profileID)
}

// SetPushToken сохраняет или сбрасывает push-токен пользователя.
// Пустая строка записывается как NULL
func SetPushToken(profileID uuid.UUID, token string) error {
	ctx, cancel := GetContext()
	defer cancel()

	var value *string
	if token != "" {
		value = &token
	}

	tag, err := Pool.Exec(ctx, `
		UPDATE profiles SET push_token = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	`, value, profileID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении push-токена: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("профиль %s не найден", profileID)
	}

	return nil
}
