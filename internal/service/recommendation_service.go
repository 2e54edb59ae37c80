package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bistro/internal/auth"
	"bistro/internal/cache"
	"bistro/internal/model"
	"bistro/internal/repository"
)

const (
	recommendationLimit    = 5
	recommendationCacheTTL = time.Minute
)

// RecommendationService ranks food items for a user. Three deterministic
// tiers: items from the user's own order history ranked by how many orders
// reference them globally; then the globally most-referenced items; then the
// most recently created available items. Ties break by item id descending.
type RecommendationService interface {
	Recommend(ctx context.Context, actor *model.User) ([]model.FoodItem, error)
}

type recommendationService struct {
	orders repository.OrderRepository
	foods  repository.FoodRepository
	cache  *cache.Client
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(orders repository.OrderRepository, foods repository.FoodRepository, cache *cache.Client) RecommendationService {
	return &recommendationService{orders: orders, foods: foods, cache: cache}
}

// Recommend returns up to 5 items for the caller.
func (s *recommendationService) Recommend(ctx context.Context, actor *model.User) ([]model.FoodItem, error) {
	if err := auth.Authorize(actor, auth.OpRecommendations); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("recommendations:user:%d", actor.ID)
	var cached []model.FoodItem
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	items, err := s.recommend(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, items, recommendationCacheTTL)
	return items, nil
}

func (s *recommendationService) recommend(ctx context.Context, userID uint) ([]model.FoodItem, error) {
	counts, err := s.orders.ItemReferenceCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count item references: %w", err)
	}

	// Tier 1: rank the user's own history by global reference count.
	historyIDs, err := s.orders.ItemIDsForCustomer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}
	if ids := rankByCount(counts, historyIDs); len(ids) > 0 {
		return s.loadOrdered(ctx, ids)
	}

	// Tier 2: rank everything anyone has ever ordered.
	if ids := rankByCount(counts, nil); len(ids) > 0 {
		return s.loadOrdered(ctx, ids)
	}

	// Tier 3: nothing was ever ordered; fall back to recency.
	return s.foods.ListRecentAvailable(ctx, recommendationLimit)
}

// rankByCount orders item ids by reference count descending, id descending,
// and truncates to the recommendation limit. A non-nil restriction limits the
// ranking to that id set.
func rankByCount(counts []repository.ItemReferenceCount, restrictTo []uint) []uint {
	var allowed map[uint]struct{}
	if restrictTo != nil {
		allowed = make(map[uint]struct{}, len(restrictTo))
		for _, id := range restrictTo {
			allowed[id] = struct{}{}
		}
	}

	ranked := make([]repository.ItemReferenceCount, 0, len(counts))
	for _, c := range counts {
		if allowed != nil {
			if _, ok := allowed[c.FoodItemID]; !ok {
				continue
			}
		}
		ranked = append(ranked, c)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Refs != ranked[j].Refs {
			return ranked[i].Refs > ranked[j].Refs
		}
		return ranked[i].FoodItemID > ranked[j].FoodItemID
	})

	if len(ranked) > recommendationLimit {
		ranked = ranked[:recommendationLimit]
	}
	ids := make([]uint, len(ranked))
	for i, c := range ranked {
		ids[i] = c.FoodItemID
	}
	return ids
}

// loadOrdered fetches items and returns them in the given id order.
func (s *recommendationService) loadOrdered(ctx context.Context, ids []uint) ([]model.FoodItem, error) {
	items, err := s.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load recommended items: %w", err)
	}
	byID := make(map[uint]model.FoodItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	out := make([]model.FoodItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}
