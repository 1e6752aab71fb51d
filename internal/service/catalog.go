package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/farmart/livestock-api/internal/dto"
	"github.com/farmart/livestock-api/internal/model"
	"github.com/farmart/livestock-api/internal/repository"
)

const defaultAnimalCacheTTL = 60 * time.Second

func animalCacheKey(id uuid.UUID) string { return "animal:" + id.String() }

type CatalogService struct {
	animalRepo  repository.AnimalRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
}

// NewCatalogService builds the catalog. redisClient may be nil, which disables
// the read cache.
func NewCatalogService(animalRepo repository.AnimalRepository, redisClient *redis.Client, cacheTTL time.Duration) *CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = defaultAnimalCacheTTL
	}
	return &CatalogService{animalRepo: animalRepo, redisClient: redisClient, cacheTTL: cacheTTL}
}

func (s *CatalogService) Create(ctx context.Context, actor model.Actor, req dto.CreateAnimalRequest) (*dto.AnimalResponse, error) {
	if err := AuthorizeCreateAnimal(actor).Err(); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	animal := &model.Animal{
		FarmerID:    actor.UserID,
		Name:        req.Name,
		Type:        req.Type,
		Breed:       req.Breed,
		Price:       req.Price,
		IsAvailable: true,
	}
	if err := s.animalRepo.Create(ctx, animal); err != nil {
		return nil, fmt.Errorf("create animal: %w", err)
	}
	resp := dto.ToAnimalResponse(animal)
	return &resp, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.AnimalResponse, error) {
	cacheKey := animalCacheKey(id)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.AnimalResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	animal, err := s.animalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get animal: %w", err)
	}
	if animal == nil {
		return nil, ErrAnimalNotFound
	}

	resp := dto.ToAnimalResponse(animal)
	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return &resp, nil
}

// Update edits descriptive fields and price. Availability is owned by the
// order lifecycle and cannot be changed here.
func (s *CatalogService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req dto.UpdateAnimalRequest) (*dto.AnimalResponse, error) {
	animal, err := s.animalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get animal: %w", err)
	}
	if animal == nil {
		return nil, ErrAnimalNotFound
	}
	if err := AuthorizeAnimalOwner(actor, animal).Err(); err != nil {
		return nil, err
	}

	if req.Name != nil {
		animal.Name = *req.Name
	}
	if req.Type != nil {
		animal.Type = *req.Type
	}
	if req.Breed != nil {
		animal.Breed = *req.Breed
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		animal.Price = *req.Price
	}

	if err := s.animalRepo.Update(ctx, animal); err != nil {
		return nil, fmt.Errorf("update animal: %w", err)
	}

	s.InvalidateAnimals(ctx, []uuid.UUID{id})
	resp := dto.ToAnimalResponse(animal)
	return &resp, nil
}

// InvalidateAnimals drops cached reads for animals whose availability or
// fields changed elsewhere.
func (s *CatalogService) InvalidateAnimals(ctx context.Context, ids []uuid.UUID) error {
	if s.redisClient == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, animalCacheKey(id))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate animal cache: %w", err)
	}
	return nil
}
