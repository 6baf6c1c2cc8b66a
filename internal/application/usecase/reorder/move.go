package reorder

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("reorder_usecase")

// pagesFor lists the public pages that show each orderable table.
var pagesFor = map[ordering.Table][]string{
	ordering.TableEvents:        {site.PathHome, site.PathEvents},
	ordering.TableGalleries:     {site.PathMedia},
	ordering.TableGalleryMedia:  {site.PathMedia},
	ordering.TableTimeline:      {site.PathAbout, site.PathPressKit},
	ordering.TableProducts:      {site.PathShop},
	ordering.TableProductImages: {site.PathShop},
}

type MoveUseCase struct {
	repo        ordering.Repository
	revalidator *site.RevalidateUseCase
	logger      logger.Logger
}

func NewMoveUseCase(r ordering.Repository, rv *site.RevalidateUseCase, log logger.Logger) *MoveUseCase {
	return &MoveUseCase{repo: r, revalidator: rv, logger: log}
}

type MoveInput struct {
	Table     ordering.Table
	ID        uuid.UUID
	Direction string
}

type MoveOutput struct {
	Moved bool `json:"moved"`
}

// Execute swaps the item with its neighbour. Moving the first item up or
// the last item down returns Moved=false and writes nothing.
func (uc *MoveUseCase) Execute(ctx context.Context, in MoveInput) (*MoveOutput, error) {
	ctx, span := tracer.Start(ctx, "Move")
	defer span.End()

	if !in.Table.Valid() {
		return nil, apperror.NewInvalidInput(ordering.ErrInvalidTable.Error(), ordering.ErrInvalidTable)
	}
	dir, err := ordering.ParseDirection(in.Direction)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	parentID, err := uc.repo.ParentOf(ctx, in.Table, in.ID)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.ListItems(ctx, ordering.Scope{Table: in.Table, ParentID: parentID})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	idx := ordering.IndexOf(items, in.ID)
	if idx < 0 {
		return nil, apperror.NewNotFound(string(in.Table), in.ID.String())
	}

	writes, ok := ordering.PlanMove(items, idx, dir)
	if !ok {
		return &MoveOutput{Moved: false}, nil
	}
	for _, w := range writes {
		if err := uc.repo.SetDisplayOrder(ctx, in.Table, w); err != nil {
			span.RecordError(err)
			uc.logger.Error("Failed to write display order", err, zap.String("table", string(in.Table)), zap.String("id", w.ID.String()))
			return nil, err
		}
	}

	uc.revalidator.After(ctx, pagesFor[in.Table]...)
	return &MoveOutput{Moved: true}, nil
}
