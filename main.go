package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/robfig/cron/v3"

	"rentify-server/routes"
	"rentify-server/storage"
	"rentify-server/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMe)
		user.Delete("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeactivateAccount)
		user.Get("/{id}/items", routes.GetUserItems)
	}

	items := app.Party("/api/items")
	{
		items.Get("/", routes.GetItems)
		items.Get("/search", routes.SearchItems)
		items.Get("/{id:uint}", routes.GetItem)
		items.Get("/{id:uint}/bookings", routes.GetItemBookings)
		items.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateItem)
		items.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateItem)
		items.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteItem)
		items.Post("/{id:uint}/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)
	}

	bookings := app.Party("/api/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		bookings.Get("/mine", routes.GetMyBookings)
		bookings.Get("/listings", routes.GetMyListingBookings)
		bookings.Patch("/{id:uint}/status", routes.UpdateBookingStatus)
		bookings.Delete("/{id:uint}", routes.CancelBooking)
		bookings.Post("/expire-pending", routes.ExpirePendingBookings)
	}

	availabilityParty := app.Party("/api/availability")
	{
		availabilityParty.Get("/item/{id:uint}", routes.GetItemAvailability)
		availabilityParty.Post("/quote", routes.QuoteItemInterval)
		availabilityParty.Post("/preview", routes.PreviewAvailability)
	}

	categories := app.Party("/api/categories")
	{
		categories.Get("/", routes.GetCategories)
		categories.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateCategory)
	}

	reviews := app.Party("/api/reviews")
	{
		reviews.Get("/item/{id:uint}", routes.GetItemReviews)
		reviews.Post("/item/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateItemReview)
	}

	location := app.Party("/api/location")
	{
		location.Get("/search", routes.SearchLocations)
		location.Get("/reverse", routes.ReverseGeocode)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", routes.ExpireStalePendingBookings); err != nil {
		log.Fatalf("scheduling booking expiry: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	app.Listen(":" + port)
}
