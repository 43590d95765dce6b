package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"rentify-server/availability"
	"rentify-server/models"
	"rentify-server/storage"
	"rentify-server/utils"
)

// Availability routes expose the same evaluator the booking flow uses, so
// the client calendar and the server decision can never disagree.

const maxCalendarDays = 366

// GetItemAvailability returns per-day availability for an item over a
// date range, for rendering the booking calendar.
func GetItemAvailability(ctx iris.Context) {
	itemID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	startStr := ctx.URLParamDefault("startDate", "")
	endStr := ctx.URLParamDefault("endDate", "")
	if startStr == "" || endStr == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"startDate and endDate query parameters are required.", ctx)
		return
	}

	start, startErr := time.Parse(itemDateLayout, startStr)
	if startErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"startDate must be a YYYY-MM-DD date.", ctx)
		return
	}
	end, endErr := time.Parse(itemDateLayout, endStr)
	if endErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"endDate must be a YYYY-MM-DD date.", ctx)
		return
	}

	if !start.Before(end) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"endDate must come after startDate.", ctx)
		return
	}
	if end.Sub(start) > maxCalendarDays*24*time.Hour {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"The requested range is too large.", ctx)
		return
	}

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

	evaluator, evalErr := evaluatorForItem(&item, 0)
	if evalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	days := calendarDays(evaluator, start, end)

	ctx.JSON(iris.Map{
		"itemID": item.ID,
		"days":   days,
	})
}

// QuoteItemInterval prices a requested interval for an item without
// creating a booking.
func QuoteItemInterval(ctx iris.Context) {
	var quoteInput QuoteIntervalInput
	err := ctx.ReadJSON(&quoteInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var item models.Item
	itemQuery := storage.DB.Where("id = ?", quoteInput.ItemID).Limit(1).Find(&item)
	if itemQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if itemQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Item not found.", ctx)
		return
	}

	start, startErr := availability.ParseDateTime(quoteInput.StartDate)
	if startErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"startDate must be an ISO date or date-time.", ctx)
		return
	}
	end, endErr := availability.ParseDateTime(quoteInput.EndDate)
	if endErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"endDate must be an ISO date or date-time.", ctx)
		return
	}

	evaluator, evalErr := evaluatorForItem(&item, 0)
	if evalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ok, availErr := evaluator.IsIntervalAvailable(start, end)
	if availErr != nil {
		handleAvailabilityError(availErr, ctx)
		return
	}

	quote, quoteErr := evaluator.QuoteForInterval(start, end)
	if quoteErr != nil {
		handleAvailabilityError(quoteErr, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"available":  ok,
		"dayCount":   quote.Days,
		"totalPrice": quote.TotalPrice,
	})
}

// PreviewAvailability evaluates a raw policy and booking list without
// touching the database. Useful for clients composing a listing and for
// exercising the evaluator end to end.
func PreviewAvailability(ctx iris.Context) {
	var previewInput PreviewAvailabilityInput
	err := ctx.ReadJSON(&previewInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	policy, policyErr := availability.ParsePolicy(
		previewInput.AvailableFrom,
		previewInput.AvailableTo,
		previewInput.AvailabilityRule,
		previewInput.DisabledDates,
	)
	if policyErr != nil {
		handleAvailabilityError(policyErr, ctx)
		return
	}

	ledger, ledgerErr := availability.ParseLedger(previewInput.Bookings)
	if ledgerErr != nil {
		handleAvailabilityError(ledgerErr, ctx)
		return
	}

	evaluator := availability.NewEvaluator(policy, ledger, previewInput.PricePerDay)

	start, startErr := availability.ParseDateTime(previewInput.StartDate)
	if startErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"startDate must be an ISO date or date-time.", ctx)
		return
	}
	end, endErr := availability.ParseDateTime(previewInput.EndDate)
	if endErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"endDate must be an ISO date or date-time.", ctx)
		return
	}

	ok, availErr := evaluator.IsIntervalAvailable(start, end)
	if availErr != nil {
		handleAvailabilityError(availErr, ctx)
		return
	}

	response := iris.Map{"available": ok}
	if ok {
		quote, quoteErr := evaluator.QuoteForInterval(start, end)
		if quoteErr != nil {
			handleAvailabilityError(quoteErr, ctx)
			return
		}
		response["dayCount"] = quote.Days
		response["totalPrice"] = quote.TotalPrice
	}

	ctx.JSON(response)
}

type calendarDay struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

func calendarDays(evaluator availability.Evaluator, start, end time.Time) []calendarDay {
	days := make([]calendarDay, 0)
	for d := availability.Day(start); d.Before(availability.Day(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, calendarDay{
			Date:      d.Format(itemDateLayout),
			Available: evaluator.IsDateAvailable(d),
		})
	}
	return days
}

type QuoteIntervalInput struct {
	ItemID    uint   `json:"itemID" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type PreviewAvailabilityInput struct {
	AvailableFrom    string                       `json:"availableFrom"`
	AvailableTo      string                       `json:"availableTo"`
	AvailabilityRule string                       `json:"availabilityRule"`
	DisabledDates    []string                     `json:"disabledDates"`
	Bookings         []availability.BookingRecord `json:"bookings"`
	PricePerDay      float64                      `json:"pricePerDay" validate:"required,gt=0"`
	StartDate        string                       `json:"startDate" validate:"required"`
	EndDate          string                       `json:"endDate" validate:"required"`
}
