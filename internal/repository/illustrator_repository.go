package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthive/illustration-platform/internal/domain"
)

// IllustratorFilter captures public listing parameters.
type IllustratorFilter struct {
	Specialty          *string
	IsAvailableForWork *bool
	Limit              int
	Offset             int
}

// IllustratorRepository encapsulates illustrator profile persistence.
type IllustratorRepository interface {
	Create(ctx context.Context, illustrator *domain.Illustrator) error
	Update(ctx context.Context, illustrator *domain.Illustrator) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Illustrator, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Illustrator, error)
	ListPublished(ctx context.Context, filter IllustratorFilter) ([]domain.Illustrator, int, error)
}

type illustratorRepository struct {
	pool *pgxpool.Pool
}

// NewIllustratorRepository instantiates repository.
func NewIllustratorRepository(pool *pgxpool.Pool) IllustratorRepository {
	return &illustratorRepository{pool: pool}
}

const illustratorColumns = `id, user_id, name, bio, specialty, profile_image_url,
        website_url, instagram_url, twitter_url, is_available_for_work, is_published,
        created_at, updated_at`

func (r *illustratorRepository) Create(ctx context.Context, illustrator *domain.Illustrator) error {
	const query = `
        INSERT INTO illustrators (user_id, name, bio, specialty, profile_image_url,
            website_url, instagram_url, twitter_url, is_available_for_work, is_published)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		illustrator.UserID,
		illustrator.Name,
		illustrator.Bio,
		illustrator.Specialty,
		illustrator.ProfileImageURL,
		illustrator.WebsiteURL,
		illustrator.InstagramURL,
		illustrator.TwitterURL,
		illustrator.IsAvailableForWork,
		illustrator.IsPublished,
	).Scan(&illustrator.ID, &illustrator.CreatedAt, &illustrator.UpdatedAt)
}

func (r *illustratorRepository) Update(ctx context.Context, illustrator *domain.Illustrator) error {
	const query = `
        UPDATE illustrators SET name=$1, bio=$2, specialty=$3, profile_image_url=$4,
            website_url=$5, instagram_url=$6, twitter_url=$7, is_available_for_work=$8,
            is_published=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		illustrator.Name,
		illustrator.Bio,
		illustrator.Specialty,
		illustrator.ProfileImageURL,
		illustrator.WebsiteURL,
		illustrator.InstagramURL,
		illustrator.TwitterURL,
		illustrator.IsAvailableForWork,
		illustrator.IsPublished,
		illustrator.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *illustratorRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM illustrators WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *illustratorRepository) GetByID(ctx context.Context, id int64) (*domain.Illustrator, error) {
	query := `SELECT ` + illustratorColumns + ` FROM illustrators WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *illustratorRepository) GetByUserID(ctx context.Context, userID string) (*domain.Illustrator, error) {
	query := `SELECT ` + illustratorColumns + ` FROM illustrators WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *illustratorRepository) ListPublished(ctx context.Context, filter IllustratorFilter) ([]domain.Illustrator, int, error) {
	conditions := []string{"is_published = TRUE"}
	args := []any{}
	argPos := 1

	if filter.Specialty != nil && *filter.Specialty != "" {
		conditions = append(conditions, fmt.Sprintf("specialty ILIKE $%d", argPos))
		args = append(args, "%"+*filter.Specialty+"%")
		argPos++
	}
	if filter.IsAvailableForWork != nil {
		conditions = append(conditions, fmt.Sprintf("is_available_for_work = $%d", argPos))
		args = append(args, *filter.IsAvailableForWork)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM illustrators WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM illustrators WHERE %s
        ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, illustratorColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var illustrators []domain.Illustrator
	for rows.Next() {
		var ill domain.Illustrator
		if err := scanIllustrator(rows, &ill); err != nil {
			return nil, 0, err
		}
		illustrators = append(illustrators, ill)
	}
	return illustrators, total, rows.Err()
}

func (r *illustratorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Illustrator, error) {
	var ill domain.Illustrator
	if err := scanIllustrator(r.pool.QueryRow(ctx, query, arg), &ill); err != nil {
		return nil, err
	}
	return &ill, nil
}

func scanIllustrator(row pgx.Row, ill *domain.Illustrator) error {
	return row.Scan(
		&ill.ID,
		&ill.UserID,
		&ill.Name,
		&ill.Bio,
		&ill.Specialty,
		&ill.ProfileImageURL,
		&ill.WebsiteURL,
		&ill.InstagramURL,
		&ill.TwitterURL,
		&ill.IsAvailableForWork,
		&ill.IsPublished,
		&ill.CreatedAt,
		&ill.UpdatedAt,
	)
}
