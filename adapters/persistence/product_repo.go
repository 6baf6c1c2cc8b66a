package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/khoahotran/duo-site/internal/domain/product"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresProductRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresProductRepo(db DB, logger logger.Logger) product.Repository {
	return &postgresProductRepo{db: db, logger: logger}
}

const (
	productColumns      = `id, slug, name, description, price_cents, currency, stripe_price_id, is_active, display_order, created_at, updated_at`
	productImageColumns = `id, product_id, image_url, external_asset_id, alt, display_order, created_at`
)

func scanProduct(row pgx.Row) (*product.Product, error) {
	p := &product.Product{}
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.PriceCents, &p.Currency,
		&p.StripePriceID, &p.IsActive, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanProductImage(row pgx.Row) (product.Image, error) {
	var img product.Image
	err := row.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.ExternalAssetID, &img.Alt, &img.DisplayOrder, &img.CreatedAt)
	return img, err
}

func (r *postgresProductRepo) Save(ctx context.Context, p *product.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query, p.ID, p.Slug, p.Name, p.Description, p.PriceCents, p.Currency,
		p.StripePriceID, p.IsActive, p.DisplayOrder, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return dbError("product", "slug", p.Slug, "save", err)
	}
	return nil
}

func (r *postgresProductRepo) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products SET
			slug = $2, name = $3, description = $4, price_cents = $5, currency = $6,
			stripe_price_id = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, p.ID, p.Slug, p.Name, p.Description, p.PriceCents, p.Currency,
		p.StripePriceID, p.IsActive, p.UpdatedAt)
	if err != nil {
		return dbError("product", "slug", p.Slug, "update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

func (r *postgresProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, "product", id.String(), `DELETE FROM products WHERE id = $1`, id)
}

func (r *postgresProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr("product", id.String(), err)
	}
	images, err := r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Images = images
	return p, nil
}

func (r *postgresProductRepo) List(ctx context.Context, activeOnly bool) ([]*product.Product, error) {
	builder := psql.Select(productColumns).From("products").OrderBy("display_order ASC", "created_at ASC")
	if activeOnly {
		builder = builder.Where(sq.Eq{"is_active": true})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list products query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError("product", "", "", "list", err)
	}
	products := make([]*product.Product, 0)
	byID := make(map[uuid.UUID]*product.Product)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, notFoundOr("product", "", err)
		}
		p.Images = []product.Image{}
		products = append(products, p)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError("product", "", "", "iterate", err)
	}
	if len(ids) == 0 {
		return products, nil
	}

	images, err := r.listImagesWhere(ctx, sq.Eq{"product_id": ids})
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		if p, ok := byID[img.ProductID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return products, nil
}

func (r *postgresProductRepo) SaveImage(ctx context.Context, img *product.Image) error {
	query := `INSERT INTO product_images (` + productImageColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, img.ID, img.ProductID, img.ImageURL, img.ExternalAssetID, img.Alt, img.DisplayOrder, img.CreatedAt)
	if err != nil {
		return dbError("product image", "id", img.ID.String(), "save", err)
	}
	return nil
}

func (r *postgresProductRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, "product image", id.String(), `DELETE FROM product_images WHERE id = $1`, id)
}

func (r *postgresProductRepo) ListImages(ctx context.Context, productID uuid.UUID) ([]product.Image, error) {
	return r.listImagesWhere(ctx, sq.Eq{"product_id": productID})
}

func (r *postgresProductRepo) listImagesWhere(ctx context.Context, where sq.Sqlizer) ([]product.Image, error) {
	sql, args, err := psql.Select(productImageColumns).From("product_images").
		Where(where).OrderBy("display_order ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list product images query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError("product image", "", "", "list", err)
	}
	defer rows.Close()

	images := make([]product.Image, 0)
	for rows.Next() {
		img, err := scanProductImage(rows)
		if err != nil {
			return nil, notFoundOr("product image", "", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("product image", "", "", "iterate", err)
	}
	return images, nil
}
