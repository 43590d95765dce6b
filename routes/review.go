package routes

import (
	"github.com/kataras/iris/v12"

	"rentify-server/availability"
	"rentify-server/models"
	"rentify-server/storage"
	"rentify-server/utils"
)

// GetItemReviews lists reviews for an item, newest first.
func GetItemReviews(ctx iris.Context) {
	itemID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var reviews []models.Review
	reviewsQuery := storage.DB.Preload("User").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&reviews)
	if reviewsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reviews)
}

// CreateItemReview records a renter's review. Only users with a completed
// booking for the item may review it, once each.
func CreateItemReview(ctx iris.Context) {
	itemID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var reviewInput CreateReviewInput
	err := ctx.ReadJSON(&reviewInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var item models.Item
	itemQuery := storage.DB.Where("id = ?", itemID).Limit(1).Find(&item)
	if itemQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if itemQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Item not found.", ctx)
		return
	}

	var completedBookings int64
	storage.DB.Model(&models.Booking{}).
		Where("item_id = ? AND renter_id = ? AND status = ?",
			itemID, userID, string(availability.StatusCompleted)).
		Count(&completedBookings)
	if completedBookings == 0 {
		utils.CreateError(iris.StatusForbidden, "Review Error",
			"You can only review items you have rented.", ctx)
		return
	}

	existingQuery := storage.DB.Where("item_id = ? AND user_id = ?", itemID, userID).
		Limit(1).Find(&models.Review{})
	if existingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existingQuery.RowsAffected > 0 {
		utils.CreateError(iris.StatusConflict, "Review Error",
			"You have already reviewed this item.", ctx)
		return
	}

	review := models.Review{
		ItemID:  itemID,
		UserID:  userID,
		Rating:  reviewInput.Rating,
		Comment: reviewInput.Comment,
	}

	createQuery := storage.DB.Create(&review)
	if createQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

type CreateReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2048"`
}
