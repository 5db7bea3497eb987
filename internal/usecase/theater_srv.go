package usecase

import (
	"context"
	"fmt"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/dto/response"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

type TheaterService interface {
	GetTheaters(ctx context.Context) ([]response.TheaterResponse, error)
	GetTheaterByID(ctx context.Context, id int64) (*response.TheaterResponse, error)
	CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error)
}

type theaterService struct {
	theaterRepo repository.TheaterRepository
	log         *zap.Logger
}

func NewTheaterService(theaterRepo repository.TheaterRepository, log *zap.Logger) TheaterService {
	return &theaterService{
		theaterRepo: theaterRepo,
		log:         log.With(zap.String("service", "theater")),
	}
}

func (s *theaterService) GetTheaters(ctx context.Context) ([]response.TheaterResponse, error) {
	theaters, err := s.theaterRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get theaters: %w", err)
	}

	items := make([]response.TheaterResponse, len(theaters))
	for i, t := range theaters {
		items[i] = response.TheaterToResponse(t)
	}
	return items, nil
}

func (s *theaterService) GetTheaterByID(ctx context.Context, id int64) (*response.TheaterResponse, error) {
	theater, err := s.theaterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get theater: %w", err)
	}
	if theater == nil {
		return nil, apperror.NewNotFound("Theater", id)
	}

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *theaterService) CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.NewFieldValidation(errs)
	}

	theater := &entity.Theater{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
	}
	if err := s.theaterRepo.Create(ctx, theater); err != nil {
		return nil, fmt.Errorf("create theater: %w", err)
	}

	s.log.Info("Theater created", zap.Int64("theater_id", theater.ID), zap.Int("capacity", theater.Capacity))

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}
