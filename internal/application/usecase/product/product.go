package product

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	mediauc "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/internal/domain/product"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("product_usecase")

const defaultCurrency = "usd"

type ProductUseCase struct {
	repo      product.Repository
	orderRepo ordering.Repository
	uploads   *mediauc.UploadMediaUseCase
	revalid   *site.RevalidateUseCase
	logger    logger.Logger
}

func NewProductUseCase(r product.Repository, o ordering.Repository, u *mediauc.UploadMediaUseCase, rv *site.RevalidateUseCase, log logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: r, orderRepo: o, uploads: u, revalid: rv, logger: log}
}

func (uc *ProductUseCase) List(ctx context.Context, activeOnly bool) ([]*product.Product, error) {
	return uc.repo.List(ctx, activeOnly)
}

type ProductInput struct {
	Slug          string
	Name          string
	Description   string
	PriceCents    int64
	Currency      string
	StripePriceID string
	IsActive      bool
}

func (in ProductInput) apply(p *product.Product) {
	p.Slug = strings.TrimSpace(in.Slug)
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.Currency = strings.ToLower(strings.TrimSpace(in.Currency))
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	p.StripePriceID = strings.TrimSpace(in.StripePriceID)
	p.IsActive = in.IsActive
}

func (uc *ProductUseCase) Create(ctx context.Context, in ProductInput) (*product.Product, error) {
	ctx, span := tracer.Start(ctx, "CreateProduct")
	defer span.End()

	items, err := uc.orderRepo.ListItems(ctx, ordering.Scope{Table: ordering.TableProducts})
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &product.Product{ID: uuid.New(), DisplayOrder: ordering.Next(items), CreatedAt: now, UpdatedAt: now}
	in.apply(p)
	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.revalid.After(ctx, site.PathShop)
	return p, nil
}

func (uc *ProductUseCase) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*product.Product, error) {
	ctx, span := tracer.Start(ctx, "UpdateProduct")
	defer span.End()

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	p.UpdatedAt = time.Now().UTC()
	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.revalid.After(ctx, site.PathShop)
	return p, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.revalid.After(ctx, site.PathShop)
	return nil
}

// UploadImage stores a file under product-images/ and appends it to the product.
func (uc *ProductUseCase) UploadImage(ctx context.Context, productID uuid.UUID, alt string, file mediauc.UploadFile) (*product.Image, error) {
	ctx, span := tracer.Start(ctx, "UploadProductImage")
	defer span.End()

	if _, err := uc.repo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	out, err := uc.uploads.Execute(ctx, file, func(ext string, at time.Time) mediauc.ObjectPath {
		return mediauc.ProductImagePath(productID, ext, at)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	items, err := uc.orderRepo.ListItems(ctx, ordering.Scope{Table: ordering.TableProductImages, ParentID: &productID})
	if err != nil {
		return nil, err
	}
	url := out.URL
	img := &product.Image{
		ID:           uuid.New(),
		ProductID:    productID,
		ImageURL:     &url,
		Alt:          alt,
		DisplayOrder: ordering.Next(items),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.repo.SaveImage(ctx, img); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.revalid.After(ctx, site.PathShop)
	return img, nil
}

func (uc *ProductUseCase) DeleteImage(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.DeleteImage(ctx, id); err != nil {
		return err
	}
	uc.revalid.After(ctx, site.PathShop)
	return nil
}
