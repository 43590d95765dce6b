package routes

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"

	"rentify-server/availability"
	"rentify-server/models"
	"rentify-server/services"
	"rentify-server/storage"
	"rentify-server/utils"
)

var mailer = services.NewMailerService()

// pendingBookingTTL is how long an owner has to act on a request before it
// expires.
const pendingBookingTTL = 24 * time.Hour

func CreateBooking(ctx iris.Context) {
	itemID, idOK := parseIDParam(ctx, "id")
	if !idOK {
		return
	}

	var bookingInput CreateBookingInput
	err := ctx.ReadJSON(&bookingInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var item models.Item
	itemQuery := storage.DB.Preload("Owner").
		Where("id = ?", itemID).Limit(1).Find(&item)
	if itemQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if itemQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Item not found.", ctx)
		return
	}

	if item.OwnerID == userID {
		utils.CreateError(iris.StatusBadRequest, "Booking Error",
			"You cannot book your own item.", ctx)
		return
	}

	if item.IsAvailable != nil && !*item.IsAvailable {
		utils.CreateError(iris.StatusConflict, "Booking Error",
			"This item is not open for bookings.", ctx)
		return
	}

	start, startErr := availability.ParseDateTime(bookingInput.StartDate)
	if startErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"startDate must be an ISO date or date-time.", ctx)
		return
	}
	end, endErr := availability.ParseDateTime(bookingInput.EndDate)
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
	if !ok {
		utils.CreateError(iris.StatusConflict, "Booking Error",
			"The requested dates are not available.", ctx)
		return
	}

	quote, quoteErr := evaluator.QuoteForInterval(start, end)
	if quoteErr != nil {
		handleAvailabilityError(quoteErr, ctx)
		return
	}

	booking := models.Booking{
		ItemID:     item.ID,
		RenterID:   userID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: quote.TotalPrice,
		Status:     string(availability.StatusPending),
		ExpiresAt:  time.Now().Add(pendingBookingTTL),
	}

	createQuery := storage.DB.Create(&booking)
	if createQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("Item.Owner").Preload("Renter").Find(&booking, booking.ID)
	go mailer.SendBookingRequestEmail(&booking)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"booking":  booking,
		"dayCount": quote.Days,
	})
}

// GetMyBookings lists the authenticated user's bookings as a renter.
func GetMyBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	bookingsQuery := storage.DB.Preload("Item").Preload("Item.Owner").
		Where("renter_id = ?", userID).
		Order("start_date DESC").
		Find(&bookings)
	if bookingsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetMyListingBookings lists bookings made against the authenticated user's
// items, so owners can review incoming requests.
func GetMyListingBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	bookingsQuery := storage.DB.Preload("Item").Preload("Renter").
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", userID).
		Order("bookings.created_at DESC").
		Find(&bookings)
	if bookingsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// UpdateBookingStatus is the owner's single decision on a request: a pending
// booking can move to confirmed or cancelled, a confirmed one to completed.
func UpdateBookingStatus(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var statusInput UpdateBookingStatusInput
	err := ctx.ReadJSON(&statusInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var booking models.Booking
	bookingQuery := storage.DB.Preload("Item").Preload("Item.Owner").Preload("Renter").
		Where("id = ?", id).Limit(1).Find(&booking)
	if bookingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if bookingQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found.", ctx)
		return
	}

	if booking.Item == nil || booking.Item.OwnerID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	next := statusInput.Status
	switch booking.Status {
	case string(availability.StatusPending):
		if next != string(availability.StatusConfirmed) && next != string(availability.StatusCancelled) {
			utils.CreateError(iris.StatusConflict, "Booking Error",
				"A pending booking can only be confirmed or cancelled.", ctx)
			return
		}
	case string(availability.StatusConfirmed):
		if next != string(availability.StatusCompleted) {
			utils.CreateError(iris.StatusConflict, "Booking Error",
				"A confirmed booking can only be completed.", ctx)
			return
		}
	default:
		utils.CreateError(iris.StatusConflict, "Booking Error",
			"This booking has already been resolved.", ctx)
		return
	}

	// Approval re-checks the calendar in case another request was confirmed
	// while this one sat pending.
	if next == string(availability.StatusConfirmed) {
		evaluator, evalErr := evaluatorForItem(booking.Item, booking.ID)
		if evalErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ok, availErr := evaluator.IsIntervalAvailable(booking.StartDate, booking.EndDate)
		if availErr != nil {
			handleAvailabilityError(availErr, ctx)
			return
		}
		if !ok {
			utils.CreateError(iris.StatusConflict, "Booking Error",
				"The requested dates are no longer available.", ctx)
			return
		}
	}

	updateQuery := storage.DB.Model(&booking).Update("status", next)
	if updateQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	booking.Status = next

	switch next {
	case string(availability.StatusConfirmed):
		go mailer.SendBookingApprovalEmail(&booking)
	case string(availability.StatusCancelled):
		go mailer.SendBookingDeclinedEmail(&booking)
	}

	ctx.JSON(booking)
}

// CancelBooking lets a renter withdraw their own pending request.
func CancelBooking(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	userID := ctx.Values().Get("userID").(uint)

	var booking models.Booking
	bookingQuery := storage.DB.Where("id = ?", id).Limit(1).Find(&booking)
	if bookingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if bookingQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found.", ctx)
		return
	}

	if booking.RenterID != userID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if booking.Status != string(availability.StatusPending) {
		utils.CreateError(iris.StatusConflict, "Booking Error",
			"Only pending bookings can be withdrawn.", ctx)
		return
	}

	updateQuery := storage.DB.Model(&booking).
		Update("status", string(availability.StatusCancelled))
	if updateQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// ExpireStalePendingBookings cancels pending requests whose decision window
// has lapsed. Run periodically by the scheduler in main.
func ExpireStalePendingBookings() {
	result := storage.DB.Model(&models.Booking{}).
		Where("status = ? AND expires_at < ?", string(availability.StatusPending), time.Now()).
		Update("status", string(availability.StatusCancelled))
	if result.Error != nil {
		log.Printf("expiring stale pending bookings failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("expired %d stale pending bookings", result.RowsAffected)
	}
}

// ExpirePendingBookings exposes the expiry sweep over HTTP so operators can
// trigger it between cron runs.
func ExpirePendingBookings(ctx iris.Context) {
	result := storage.DB.Model(&models.Booking{}).
		Where("status = ? AND expires_at < ?", string(availability.StatusPending), time.Now()).
		Update("status", string(availability.StatusCancelled))
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"expired": result.RowsAffected})
}

// evaluatorForItem assembles the item's policy and its blocking bookings
// into an evaluator. excludeBookingID skips one booking, used when
// re-checking a request against the rest of the calendar.
func evaluatorForItem(item *models.Item, excludeBookingID uint) (availability.Evaluator, error) {
	policy, policyErr := availability.ParsePolicy(
		formatOptionalDate(item.AvailableFrom),
		formatOptionalDate(item.AvailableTo),
		item.AvailabilityRule,
		item.DisabledDateStrings(),
	)
	if policyErr != nil {
		return availability.Evaluator{}, policyErr
	}

	query := storage.DB.Model(&models.Booking{}).
		Where("item_id = ? AND status IN ?", item.ID,
			[]string{string(availability.StatusPending), string(availability.StatusConfirmed)})
	if excludeBookingID != 0 {
		query = query.Where("id <> ?", excludeBookingID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return availability.Evaluator{}, err
	}

	entries := make([]availability.Entry, 0, len(bookings))
	for _, b := range bookings {
		entries = append(entries, availability.Entry{
			ID:     b.ID,
			Start:  b.StartDate,
			End:    b.EndDate,
			Status: availability.Status(b.Status),
		})
	}

	return availability.NewEvaluator(policy, availability.NewLedger(entries), item.PricePerDay), nil
}

// handleAvailabilityError maps evaluator errors onto HTTP statuses: bad
// intervals are the client's fault, window misses are calendar conflicts.
func handleAvailabilityError(err error, ctx iris.Context) {
	var intervalErr *availability.InvalidIntervalError
	if errors.As(err, &intervalErr) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", intervalErr.Error(), ctx)
		return
	}

	var windowErr *availability.OutOfWindowError
	if errors.As(err, &windowErr) {
		utils.CreateError(iris.StatusConflict, "Booking Error", windowErr.Error(), ctx)
		return
	}

	var constructionErr *availability.ConstructionError
	if errors.As(err, &constructionErr) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", constructionErr.Error(), ctx)
		return
	}

	var rangeErr *availability.InvalidRangeError
	if errors.As(err, &rangeErr) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", rangeErr.Error(), ctx)
		return
	}

	utils.CreateInternalServerError(ctx)
}

func parseIDParam(ctx iris.Context, name string) (uint, bool) {
	raw := ctx.Params().Get(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			name+" must be a positive integer.", ctx)
		return 0, false
	}
	return uint(id), true
}

type CreateBookingInput struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled completed"`
}
