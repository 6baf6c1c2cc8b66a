package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/duo-site/internal/domain/gallery"
	"github.com/khoahotran/duo-site/internal/domain/hero"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/internal/domain/order"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type SiteRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool       *pgxpool.Pool
	pgContainer  *postgres.PostgresContainer
	testLogger   logger.Logger
	mediaRepo    media.Repository
	heroRepo     hero.Repository
	galleryRepo  gallery.Repository
	orderRepo    order.Repository
	orderingRepo ordering.Repository
}

func (s *SiteRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNop()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.mediaRepo = NewPostgresMediaRepo(s.dbPool, s.testLogger)
	s.heroRepo = NewPostgresHeroRepo(s.dbPool, s.testLogger)
	s.galleryRepo = NewPostgresGalleryRepo(s.dbPool, s.testLogger)
	s.orderRepo = NewPostgresOrderRepo(s.dbPool, s.testLogger)
	s.orderingRepo = NewPostgresOrderingRepo(s.dbPool, s.testLogger)
}

func (s *SiteRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestSiteRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(SiteRepoIntegrationTestSuite))
}

func (s *SiteRepoIntegrationTestSuite) Test_Assets_SaveBatch_And_FindByID() {
	ctx := context.Background()
	now := time.Now().UTC()
	mime := "video/mp4"
	folder := "folder123"

	assets := []*media.ExternalAsset{
		{ID: uuid.New(), Provider: media.ProviderGoogleDrive, FileID: "drv-1", MimeType: &mime, SourceFolderID: &folder, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Provider: media.ProviderGoogleDrive, FileID: "drv-2", SourceFolderID: &folder, CreatedAt: now, UpdatedAt: now},
	}
	s.NoError(s.mediaRepo.SaveBatch(ctx, assets))

	found, err := s.mediaRepo.FindByID(ctx, assets[0].ID)
	s.NoError(err)
	s.Equal("drv-1", found.FileID)
	s.Equal(media.KindVideo, found.Kind())
	s.Nil(found.PreviewURL)

	listed, err := s.mediaRepo.List(ctx, media.ProviderGoogleDrive, 10, 0)
	s.NoError(err)
	s.Len(listed, 2)
}

func (s *SiteRepoIntegrationTestSuite) Test_Hero_Upsert_IsKeyedByPage() {
	ctx := context.Background()
	url := "https://res.cloudinary.com/demo/image/upload/hero.jpg"
	now := time.Now().UTC()

	first := &hero.Section{ID: uuid.New(), Page: "events", Headline: "Tour", MediaType: media.KindImage, CreatedAt: now, UpdatedAt: now}
	s.NoError(s.heroRepo.Upsert(ctx, first))

	second := &hero.Section{ID: uuid.New(), Page: "events", Headline: "World Tour", MediaURL: &url, MediaType: media.KindImage, CreatedAt: now, UpdatedAt: now}
	s.NoError(s.heroRepo.Upsert(ctx, second))

	found, err := s.heroRepo.FindByPage(ctx, "events")
	s.NoError(err)
	s.Equal(first.ID, found.ID)
	s.Equal("World Tour", found.Headline)
	s.Equal(url, *found.MediaURL)
}

func (s *SiteRepoIntegrationTestSuite) Test_Gallery_ItemsLoaded_And_Reordered() {
	ctx := context.Background()
	now := time.Now().UTC()

	g := &gallery.Gallery{ID: uuid.New(), Slug: "live-2024", Title: "Live", IsPublished: true, CreatedAt: now, UpdatedAt: now}
	s.NoError(s.galleryRepo.Save(ctx, g))

	urls := []string{"https://example.com/a.jpg", "https://example.com/b.jpg"}
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	for i := range urls {
		s.NoError(s.galleryRepo.SaveItem(ctx, &gallery.Item{
			ID: ids[i], GalleryID: g.ID, MediaURL: &urls[i], MediaType: media.KindImage,
			DisplayOrder: i, CreatedAt: now, UpdatedAt: now,
		}))
	}

	parent, err := s.orderingRepo.ParentOf(ctx, ordering.TableGalleryMedia, ids[1])
	s.NoError(err)
	s.Equal(g.ID, *parent)

	items, err := s.orderingRepo.ListItems(ctx, ordering.Scope{Table: ordering.TableGalleryMedia, ParentID: parent})
	s.NoError(err)
	writes, ok := ordering.PlanMove(items, 1, ordering.Up)
	s.True(ok)
	for _, w := range writes {
		s.NoError(s.orderingRepo.SetDisplayOrder(ctx, ordering.TableGalleryMedia, w))
	}

	galleries, err := s.galleryRepo.List(ctx, true)
	s.NoError(err)
	s.Len(galleries, 1)
	s.Len(galleries[0].Items, 2)
	s.Equal(ids[1], galleries[0].Items[0].ID)
}

func (s *SiteRepoIntegrationTestSuite) Test_Order_SaveWithItems() {
	ctx := context.Background()
	email := "fan@example.com"

	o := &order.Order{
		ID: uuid.New(), StripeSessionID: "cs_test_int", CustomerEmail: &email,
		AmountTotalCents: 2500, Currency: "usd", Status: order.StatusPaid, CreatedAt: time.Now().UTC(),
		Items: []order.Item{{ID: uuid.New(), StripePriceID: "price_123", Description: "T-shirt", Quantity: 1, PriceCents: 2500}},
	}
	s.NoError(s.orderRepo.SaveWithItems(ctx, o))

	orders, err := s.orderRepo.List(ctx, 10, 0)
	s.NoError(err)
	s.Len(orders, 1)
	s.Equal("cs_test_int", orders[0].StripeSessionID)
	s.Len(orders[0].Items, 1)
	s.Equal(int64(2500), orders[0].Items[0].PriceCents)
}
