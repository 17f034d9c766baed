// Package storage реализует хранилище данных на основе PostgreSQL
// для управления учетными записями пользователей. Предоставляет методы
// создания записи, поиска по индексам и атомарного обновления полей,
// связанных с подтверждением почты и сбросом пароля.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/magabrotheeeer/auth-service/internal/models"
)

// Ошибки хранилища. "Не найдено" — различимый исход, а не только ошибка.
var (
	// ErrUserNotFound запись не найдена
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken имя пользователя уже занято другой записью
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken почта уже привязана к другой записи
	ErrEmailTaken = errors.New("email already exists")
)

const uniqueViolationCode = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}

const userColumns = `uid, username, email, password_hash, is_verified,
			      verification_code, verification_code_expires_at,
			      reset_token, reset_token_expires_at, created_at`

// RegisterUser сохраняет нового пользователя и возвращает его UID.
//
// Уникальность username и email гарантируется ограничениями таблицы:
// при конкурентной регистрации с одинаковой почтой ровно одна запись
// будет создана, остальные получат ErrUsernameTaken или ErrEmailTaken.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, email, password_hash,
			      verification_code, verification_code_expires_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.VerificationCode, user.VerificationCodeExpiresAt).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return "", fmt.Errorf("%s: %w", op, ErrUsernameTaken)
			case "users_email_key":
				return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
			}
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	return s.getUserBy(ctx, op, "uid = $1", userUID)
}

// GetUserByEmail возвращает пользователя по его почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	return s.getUserBy(ctx, op, "email = $1", email)
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	return s.getUserBy(ctx, op, "username = $1", username)
}

// GetUserByVerificationCode возвращает пользователя с действующим
// (не истекшим) кодом подтверждения почты.
func (s *Storage) GetUserByVerificationCode(ctx context.Context, code string) (*models.User, error) {
	const op = "storage.GetUserByVerificationCode"
	return s.getUserBy(ctx, op, "verification_code = $1 AND verification_code_expires_at > NOW()", code)
}

// GetUserByResetToken возвращает пользователя с действующим
// (не истекшим) токеном сброса пароля.
func (s *Storage) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.GetUserByResetToken"
	return s.getUserBy(ctx, op, "reset_token = $1 AND reset_token_expires_at > NOW()", token)
}

func (s *Storage) getUserBy(ctx context.Context, op, condition string, arg any) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE ` + condition
	row := s.DB.QueryRowContext(ctx, query, arg)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var verificationCode, resetToken sql.NullString
	var verificationExpiry, resetExpiry sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash, &u.IsVerified,
		&verificationCode, &verificationExpiry, &resetToken, &resetExpiry,
		&u.CreatedAt); err != nil {
		return nil, err
	}

	if verificationCode.Valid {
		u.VerificationCode = &verificationCode.String
	}
	if verificationExpiry.Valid {
		u.VerificationCodeExpiresAt = &verificationExpiry.Time
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	if resetExpiry.Valid {
		u.ResetTokenExpiresAt = &resetExpiry.Time
	}
	return u, nil
}

// MarkUserVerified помечает почту подтвержденной и очищает одноразовый
// код вместе со сроком действия. Повторное применение того же кода
// после этого невозможно.
func (s *Storage) MarkUserVerified(ctx context.Context, userUID string) error {
	const op = "storage.MarkUserVerified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_verified = TRUE,
			      verification_code = NULL,
			      verification_code_expires_at = NULL
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetVerificationCode записывает новый код подтверждения и срок действия,
// перезаписывая ожидающий код, если он был.
func (s *Storage) SetVerificationCode(ctx context.Context, userUID, code string, expiresAt time.Time) error {
	const op = "storage.SetVerificationCode"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET verification_code = $1,
			      verification_code_expires_at = $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, code, expiresAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetResetToken записывает новый токен сброса пароля и срок действия,
// перезаписывая ожидающий токен, если он был.
func (s *Storage) SetResetToken(ctx context.Context, userUID, token string, expiresAt time.Time) error {
	const op = "storage.SetResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET reset_token = $1,
			      reset_token_expires_at = $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, token, expiresAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// UpdatePassword сохраняет новый хэш пароля и очищает одноразовый токен
// сброса вместе со сроком действия.
func (s *Storage) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1,
			      reset_token = NULL,
			      reset_token_expires_at = NULL
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}
