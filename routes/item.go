package routes

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"

	"rentify-server/availability"
	"rentify-server/models"
	"rentify-server/storage"
	"rentify-server/utils"
)

const itemDateLayout = "2006-01-02"

func CreateItem(ctx iris.Context) {
	var itemInput CreateItemInput
	err := ctx.ReadJSON(&itemInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var category models.Category
	categoryQuery := storage.DB.Find(&category, itemInput.CategoryID)
	if categoryQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if categoryQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Category Error", "Unknown category.", ctx)
		return
	}

	availableFrom, availableTo, parseErr := parseAvailabilityWindow(itemInput.AvailableFrom, itemInput.AvailableTo)
	if parseErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", parseErr.Error(), ctx)
		return
	}

	rule := itemInput.AvailabilityRule
	if rule == "" {
		rule = "all_days"
	}
	if rule != "all_days" && rule != "weekdays_only" && rule != "weekends_only" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"availabilityRule must be all_days, weekdays_only or weekends_only.", ctx)
		return
	}

	disabledDates, disabledErr := encodeDisabledDates(itemInput.DisabledDates)
	if disabledErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", disabledErr.Error(), ctx)
		return
	}

	item := models.Item{
		OwnerID:          userID,
		CategoryID:       itemInput.CategoryID,
		Name:             itemInput.Name,
		Description:      itemInput.Description,
		PricePerDay:      itemInput.PricePerDay,
		Address:          itemInput.Address,
		City:             itemInput.City,
		State:            itemInput.State,
		Zip:              itemInput.Zip,
		AvailableFrom:    availableFrom,
		AvailableTo:      availableTo,
		AvailabilityRule: rule,
		DisabledDates:    disabledDates,
	}

	if pruneErr := pruneDisabledDates(&item); pruneErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", pruneErr.Error(), ctx)
		return
	}

	if itemInput.Image != "" {
		publicID := "items/" + uuid.NewString()
		imageURL, uploadErr := storage.UploadBase64Image(itemInput.Image, publicID)
		if uploadErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		item.ImageURL = imageURL
	}

	createQuery := storage.DB.Create(&item)
	if createQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(item)
}

// GetItems lists available items, newest first, with skip/limit paging and
// optional category and city filters.
func GetItems(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	skip := ctx.URLParamIntDefault("skip", 0)
	if skip < 0 {
		skip = 0
	}

	query := storage.DB.Model(&models.Item{}).
		Preload("Category").Preload("Owner").
		Where("is_available = ?", true)

	if categoryID := ctx.URLParamDefault("category", ""); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if city := ctx.URLParamDefault("city", ""); city != "" {
		query = query.Where("city ILIKE ?", city)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var items []models.Item
	itemsQuery := query.Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&items)
	if itemsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, items, skip/limit+1, limit, total)
}

// SearchItems matches available items by name or description.
func SearchItems(ctx iris.Context) {
	search := ctx.URLParamDefault("q", "")
	if search == "" {
		ctx.JSON([]models.Item{})
		return
	}
	limit := ctx.URLParamIntDefault("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	pattern := "%" + search + "%"
	var items []models.Item
	itemsQuery := storage.DB.Preload("Category").Preload("Owner").
		Where("is_available = ?", true).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&items)
	if itemsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(items)
}

func GetItem(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	item := getItemByID(id, ctx)
	if item == nil {
		return
	}

	ctx.JSON(item)
}

func UpdateItem(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	item := getItemAsOwner(id, ctx)
	if item == nil {
		return
	}

	var itemInput UpdateItemInput
	err := ctx.ReadJSON(&itemInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if itemInput.Name != nil {
		item.Name = *itemInput.Name
	}
	if itemInput.Description != nil {
		item.Description = *itemInput.Description
	}
	if itemInput.PricePerDay != nil {
		item.PricePerDay = *itemInput.PricePerDay
	}
	if itemInput.IsAvailable != nil {
		item.IsAvailable = itemInput.IsAvailable
	}
	if itemInput.Address != nil {
		item.Address = *itemInput.Address
	}
	if itemInput.City != nil {
		item.City = *itemInput.City
	}
	if itemInput.State != nil {
		item.State = *itemInput.State
	}
	if itemInput.Zip != nil {
		item.Zip = *itemInput.Zip
	}

	if itemInput.AvailableFrom != nil || itemInput.AvailableTo != nil {
		from := formatOptionalDate(item.AvailableFrom)
		to := formatOptionalDate(item.AvailableTo)
		if itemInput.AvailableFrom != nil {
			from = *itemInput.AvailableFrom
		}
		if itemInput.AvailableTo != nil {
			to = *itemInput.AvailableTo
		}
		availableFrom, availableTo, parseErr := parseAvailabilityWindow(from, to)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", parseErr.Error(), ctx)
			return
		}
		item.AvailableFrom = availableFrom
		item.AvailableTo = availableTo
	}

	if itemInput.AvailabilityRule != nil {
		rule := *itemInput.AvailabilityRule
		if rule != "all_days" && rule != "weekdays_only" && rule != "weekends_only" {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"availabilityRule must be all_days, weekdays_only or weekends_only.", ctx)
			return
		}
		item.AvailabilityRule = rule
	}

	if itemInput.DisabledDates != nil {
		disabledDates, disabledErr := encodeDisabledDates(*itemInput.DisabledDates)
		if disabledErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", disabledErr.Error(), ctx)
			return
		}
		item.DisabledDates = disabledDates
	}

	if pruneErr := pruneDisabledDates(item); pruneErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", pruneErr.Error(), ctx)
		return
	}

	if itemInput.Image != nil && *itemInput.Image != "" {
		if item.ImageURL != "" {
			if deleteErr := storage.DeleteImage(item.ImageURL); deleteErr != nil {
				log.Printf("replacing image for item %d: could not delete old image: %v", item.ID, deleteErr)
			}
		}
		publicID := "items/" + uuid.NewString()
		imageURL, uploadErr := storage.UploadBase64Image(*itemInput.Image, publicID)
		if uploadErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		item.ImageURL = imageURL
	}

	saveQuery := storage.DB.Save(item)
	if saveQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(item)
}

func DeleteItem(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	item := getItemAsOwner(id, ctx)
	if item == nil {
		return
	}

	var activeBookings int64
	storage.DB.Model(&models.Booking{}).
		Where("item_id = ? AND status IN ?", item.ID, []string{"pending", "confirmed"}).
		Count(&activeBookings)
	if activeBookings > 0 {
		utils.CreateError(iris.StatusConflict, "Deletion Error",
			"Item has pending or confirmed bookings.", ctx)
		return
	}

	if item.ImageURL != "" {
		if deleteErr := storage.DeleteImage(item.ImageURL); deleteErr != nil {
			log.Printf("deleting item %d: could not delete image: %v", item.ID, deleteErr)
		}
	}

	deleteQuery := storage.DB.Delete(item)
	if deleteQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// GetItemBookings returns the blocking booking ranges for an item. This is
// the public ledger feed the client calendars consume, so it carries dates
// and statuses only, never renter identities.
func GetItemBookings(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	item := getItemByID(id, ctx)
	if item == nil {
		return
	}

	var bookings []models.Booking
	bookingsQuery := storage.DB.
		Where("item_id = ? AND status IN ?", item.ID, []string{"pending", "confirmed"}).
		Order("start_date ASC").
		Find(&bookings)
	if bookingsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	records := make([]availability.BookingRecord, 0, len(bookings))
	for _, b := range bookings {
		records = append(records, availability.BookingRecord{
			ID:        b.ID,
			StartDate: b.StartDate.Format(time.RFC3339),
			EndDate:   b.EndDate.Format(time.RFC3339),
			Status:    b.Status,
		})
	}

	ctx.JSON(records)
}

func getItemByID(id string, ctx iris.Context) *models.Item {
	var item models.Item
	itemQuery := storage.DB.Preload("Category").Preload("Owner").
		Where("id = ?", id).Limit(1).Find(&item)

	if itemQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if itemQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Item not found.", ctx)
		return nil
	}

	return &item
}

func getItemAsOwner(id string, ctx iris.Context) *models.Item {
	item := getItemByID(id, ctx)
	if item == nil {
		return nil
	}

	userID := ctx.Values().Get("userID").(uint)
	if item.OwnerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}

	return item
}

func parseAvailabilityWindow(from, to string) (*time.Time, *time.Time, error) {
	var availableFrom, availableTo *time.Time

	if from != "" {
		parsed, err := time.Parse(itemDateLayout, from)
		if err != nil {
			return nil, nil, errInvalidDate("availableFrom", from)
		}
		availableFrom = &parsed
	}
	if to != "" {
		parsed, err := time.Parse(itemDateLayout, to)
		if err != nil {
			return nil, nil, errInvalidDate("availableTo", to)
		}
		availableTo = &parsed
	}

	if availableFrom != nil && availableTo != nil && availableTo.Before(*availableFrom) {
		return nil, nil, errWindowOrder
	}

	return availableFrom, availableTo, nil
}

func encodeDisabledDates(dates []string) (datatypes.JSON, error) {
	if dates == nil {
		dates = []string{}
	}
	for _, d := range dates {
		if _, err := time.Parse(itemDateLayout, d); err != nil {
			return nil, errInvalidDate("disabledDates", d)
		}
	}
	encoded, err := json.Marshal(dates)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}

// pruneDisabledDates drops disabled dates that fall outside the item's
// current window. Pruning happens on every policy save, so narrowing the
// window discards the dates it excludes rather than carrying them dormant.
func pruneDisabledDates(item *models.Item) error {
	policy, err := availability.ParsePolicy(
		formatOptionalDate(item.AvailableFrom),
		formatOptionalDate(item.AvailableTo),
		item.AvailabilityRule,
		item.DisabledDateStrings(),
	)
	if err != nil {
		return err
	}

	kept := policy.WithBlockedDatesPruned().BlockedDates()
	dates := make([]string, 0, len(kept))
	for _, d := range kept {
		dates = append(dates, d.Format(itemDateLayout))
	}

	encoded, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	item.DisabledDates = datatypes.JSON(encoded)
	return nil
}

var errWindowOrder = fmt.Errorf("availableTo must not precede availableFrom")

func errInvalidDate(field, value string) error {
	return fmt.Errorf("%s: %q is not a valid YYYY-MM-DD date", field, value)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(itemDateLayout)
}

type CreateItemInput struct {
	Name             string   `json:"name" validate:"required,max=256"`
	Description      string   `json:"description" validate:"max=4096"`
	CategoryID       uint     `json:"categoryID" validate:"required"`
	PricePerDay      float64  `json:"pricePerDay" validate:"required,gt=0"`
	Image            string   `json:"image"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	Zip              string   `json:"zip"`
	AvailableFrom    string   `json:"availableFrom"`
	AvailableTo      string   `json:"availableTo"`
	AvailabilityRule string   `json:"availabilityRule"`
	DisabledDates    []string `json:"disabledDates"`
}

type UpdateItemInput struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	PricePerDay      *float64  `json:"pricePerDay"`
	IsAvailable      *bool     `json:"isAvailable"`
	Image            *string   `json:"image"`
	Address          *string   `json:"address"`
	City             *string   `json:"city"`
	State            *string   `json:"state"`
	Zip              *string   `json:"zip"`
	AvailableFrom    *string   `json:"availableFrom"`
	AvailableTo      *string   `json:"availableTo"`
	AvailabilityRule *string   `json:"availabilityRule"`
	DisabledDates    *[]string `json:"disabledDates"`
}
