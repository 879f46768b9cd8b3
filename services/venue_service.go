package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
	"github.com/sportleague/league-system/storage"
)

type VenueInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type VenueService interface {
	Create(ctx context.Context, input VenueInput) (*models.Venue, error)
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	List(ctx context.Context) ([]models.Venue, error)
	Update(ctx context.Context, id int, input VenueInput) (*models.Venue, error)
	Delete(ctx context.Context, id int) error
}

type venueService struct {
	venueRepo repositories.VenueRepository
	uploader  storage.FileUploader
}

func NewVenueService(venueRepo repositories.VenueRepository, uploader storage.FileUploader) VenueService {
	return &venueService{venueRepo: venueRepo, uploader: uploader}
}

func (s *venueService) Create(ctx context.Context, input VenueInput) (*models.Venue, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrVenueNameRequired
	}

	venue := &models.Venue{
		Name:     strings.TrimSpace(input.Name),
		Location: input.Location,
	}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		if errors.Is(err, repositories.ErrVenueNameConflict) {
			return nil, ErrVenueNameConflict
		}
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	populateVenuePhotoURL(venue, s.uploader)
	return venue, nil
}

func (s *venueService) List(ctx context.Context) ([]models.Venue, error) {
	venues, err := s.venueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	for i := range venues {
		populateVenuePhotoURL(&venues[i], s.uploader)
	}
	return venues, nil
}

func (s *venueService) Update(ctx context.Context, id int, input VenueInput) (*models.Venue, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrVenueNameRequired
	}

	venue := &models.Venue{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		Location: input.Location,
	}
	if err := s.venueRepo.Update(ctx, venue); err != nil {
		switch {
		case errors.Is(err, repositories.ErrVenueNotFound):
			return nil, ErrVenueNotFound
		case errors.Is(err, repositories.ErrVenueNameConflict):
			return nil, ErrVenueNameConflict
		}
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) Delete(ctx context.Context, id int) error {
	if err := s.venueRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrVenueNotFound):
			return ErrVenueNotFound
		case errors.Is(err, repositories.ErrVenueInUse):
			return ErrVenueInUse
		}
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	return nil
}
