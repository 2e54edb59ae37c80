package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/repository"
)

func itemsByID(ids ...uint) []model.FoodItem {
	items := make([]model.FoodItem, len(ids))
	for i, id := range ids {
		items[i] = foodFixture(id, "item", "5.00")
	}
	return items
}

func recommendedIDs(items []model.FoodItem) []uint {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks the caller's history by global popularity", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("ItemReferenceCounts", ctx).Return([]repository.ItemReferenceCount{
			{FoodItemID: 1, Refs: 3},
			{FoodItemID: 2, Refs: 8},
			{FoodItemID: 3, Refs: 5},
			{FoodItemID: 4, Refs: 10},
		}, nil)
		orders.On("ItemIDsForCustomer", ctx, testCustomer.ID).Return([]uint{1, 2, 3}, nil)
		foods := new(MockFoodRepository)
		foods.On("FindByIDs", ctx, []uint{2, 3, 1}).Return(itemsByID(1, 2, 3), nil)

		svc := NewRecommendationService(orders, foods, noCache())
		items, err := svc.Recommend(ctx, testCustomer)

		assert.NoError(t, err)
		assert.Equal(t, []uint{2, 3, 1}, recommendedIDs(items))
		foods.AssertNotCalled(t, "ListRecentAvailable", mock.Anything, mock.Anything)
	})

	t.Run("falls back to the global ranking for a fresh account", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("ItemReferenceCounts", ctx).Return([]repository.ItemReferenceCount{
			{FoodItemID: 7, Refs: 2},
			{FoodItemID: 8, Refs: 6},
		}, nil)
		orders.On("ItemIDsForCustomer", ctx, testCustomer.ID).Return([]uint{}, nil)
		foods := new(MockFoodRepository)
		foods.On("FindByIDs", ctx, []uint{8, 7}).Return(itemsByID(7, 8), nil)

		svc := NewRecommendationService(orders, foods, noCache())
		items, err := svc.Recommend(ctx, testCustomer)

		assert.NoError(t, err)
		assert.Equal(t, []uint{8, 7}, recommendedIDs(items))
	})

	t.Run("falls back to recency when nothing was ever ordered", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("ItemReferenceCounts", ctx).Return([]repository.ItemReferenceCount{}, nil)
		orders.On("ItemIDsForCustomer", ctx, testCustomer.ID).Return([]uint{}, nil)
		foods := new(MockFoodRepository)
		foods.On("ListRecentAvailable", ctx, 5).Return(itemsByID(12, 11, 10), nil)

		svc := NewRecommendationService(orders, foods, noCache())
		items, err := svc.Recommend(ctx, testCustomer)

		assert.NoError(t, err)
		assert.Equal(t, []uint{12, 11, 10}, recommendedIDs(items))
		foods.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("ties break by newer item id", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("ItemReferenceCounts", ctx).Return([]repository.ItemReferenceCount{
			{FoodItemID: 1, Refs: 4},
			{FoodItemID: 2, Refs: 4},
			{FoodItemID: 3, Refs: 4},
		}, nil)
		orders.On("ItemIDsForCustomer", ctx, testCustomer.ID).Return([]uint{1, 2, 3}, nil)
		foods := new(MockFoodRepository)
		foods.On("FindByIDs", ctx, []uint{3, 2, 1}).Return(itemsByID(1, 2, 3), nil)

		svc := NewRecommendationService(orders, foods, noCache())
		items, err := svc.Recommend(ctx, testCustomer)

		assert.NoError(t, err)
		assert.Equal(t, []uint{3, 2, 1}, recommendedIDs(items))
	})

	t.Run("truncates to five", func(t *testing.T) {
		counts := []repository.ItemReferenceCount{
			{FoodItemID: 1, Refs: 9},
			{FoodItemID: 2, Refs: 8},
			{FoodItemID: 3, Refs: 7},
			{FoodItemID: 4, Refs: 6},
			{FoodItemID: 5, Refs: 5},
			{FoodItemID: 6, Refs: 4},
			{FoodItemID: 7, Refs: 3},
		}
		orders := new(MockOrderRepository)
		orders.On("ItemReferenceCounts", ctx).Return(counts, nil)
		orders.On("ItemIDsForCustomer", ctx, testCustomer.ID).Return([]uint{1, 2, 3, 4, 5, 6, 7}, nil)
		foods := new(MockFoodRepository)
		foods.On("FindByIDs", ctx, []uint{1, 2, 3, 4, 5}).Return(itemsByID(1, 2, 3, 4, 5), nil)

		svc := NewRecommendationService(orders, foods, noCache())
		items, err := svc.Recommend(ctx, testCustomer)

		assert.NoError(t, err)
		assert.Len(t, items, 5)
	})

	t.Run("anonymous callers are rejected", func(t *testing.T) {
		svc := NewRecommendationService(new(MockOrderRepository), new(MockFoodRepository), noCache())
		_, err := svc.Recommend(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
	})
}
