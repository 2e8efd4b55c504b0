package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthive/illustration-platform/internal/domain"
)

// ImageSort enumerates supported public listing orders.
type ImageSort string

const (
	ImageSortRecent  ImageSort = "recent"
	ImageSortPopular ImageSort = "popular"
	ImageSortTitle   ImageSort = "title"
)

// ImageFilter captures public listing parameters.
type ImageFilter struct {
	Tags   []string
	SortBy ImageSort
	Limit  int
	Offset int
}

// ImageRepository encapsulates image metadata persistence.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	Update(ctx context.Context, image *domain.Image) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Image, error)
	ListPublished(ctx context.Context, filter ImageFilter) ([]domain.Image, int, error)
	ListByIllustrator(ctx context.Context, illustratorID string, limit, offset int) ([]domain.Image, int, error)
	AddViews(ctx context.Context, id string, delta int64) error
}

type imageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository instantiates repository.
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool}
}

const imageColumns = `id, illustrator_id, title, description, image_url, thumbnail_url,
        tags, is_published, view_count, created_at, updated_at`

func (r *imageRepository) Create(ctx context.Context, image *domain.Image) error {
	const query = `
        INSERT INTO images (id, illustrator_id, title, description, image_url, thumbnail_url, tags, is_published)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		image.ID,
		image.IllustratorID,
		image.Title,
		image.Description,
		image.ImageURL,
		image.ThumbnailURL,
		image.Tags,
		image.IsPublished,
	).Scan(&image.CreatedAt, &image.UpdatedAt)
}

func (r *imageRepository) Update(ctx context.Context, image *domain.Image) error {
	const query = `
        UPDATE images SET title=$1, description=$2, tags=$3, is_published=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		image.Title,
		image.Description,
		image.Tags,
		image.IsPublished,
		image.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *imageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id=$1`
	var image domain.Image
	if err := scanImage(r.pool.QueryRow(ctx, query, id), &image); err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) ListPublished(ctx context.Context, filter ImageFilter) ([]domain.Image, int, error) {
	conditions := []string{"is_published = TRUE"}
	args := []any{}
	argPos := 1

	if len(filter.Tags) > 0 {
		lowered := make([]string, 0, len(filter.Tags))
		for _, tag := range filter.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				lowered = append(lowered, tag)
			}
		}
		if len(lowered) > 0 {
			conditions = append(conditions, fmt.Sprintf("tags && $%d", argPos))
			args = append(args, lowered)
			argPos++
		}
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM images WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM images WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		imageColumns, where, orderClause(filter.SortBy), argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	return r.fetchMany(ctx, listQuery, total, args...)
}

func (r *imageRepository) ListByIllustrator(ctx context.Context, illustratorID string, limit, offset int) ([]domain.Image, int, error) {
	var total int
	const countQuery = `SELECT COUNT(*) FROM images WHERE illustrator_id=$1 AND is_published = TRUE`
	if err := r.pool.QueryRow(ctx, countQuery, illustratorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + imageColumns + ` FROM images
        WHERE illustrator_id=$1 AND is_published = TRUE
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.fetchMany(ctx, query, total, illustratorID, limit, offset)
}

func (r *imageRepository) AddViews(ctx context.Context, id string, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE images SET view_count = view_count + $1 WHERE id=$2`, delta, id)
	return err
}

func (r *imageRepository) fetchMany(ctx context.Context, query string, total int, args ...any) ([]domain.Image, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		var image domain.Image
		if err := scanImage(rows, &image); err != nil {
			return nil, 0, err
		}
		images = append(images, image)
	}
	return images, total, rows.Err()
}

func orderClause(sortBy ImageSort) string {
	switch sortBy {
	case ImageSortPopular:
		return "view_count DESC"
	case ImageSortTitle:
		return "title ASC"
	default:
		return "created_at DESC"
	}
}

func scanImage(row pgx.Row, image *domain.Image) error {
	return row.Scan(
		&image.ID,
		&image.IllustratorID,
		&image.Title,
		&image.Description,
		&image.ImageURL,
		&image.ThumbnailURL,
		&image.Tags,
		&image.IsPublished,
		&image.ViewCount,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
}
