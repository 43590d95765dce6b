package routes

import (
	"github.com/kataras/iris/v12"

	"rentify-server/services"
	"rentify-server/utils"
)

var geocoder = services.NewGeocodingService()

// SearchLocations proxies address autocomplete through the server so the
// client never talks to the geocoding provider directly.
func SearchLocations(ctx iris.Context) {
	query := ctx.URLParamDefault("q", "")
	if len(query) < 3 {
		ctx.JSON([]services.GeocodeResult{})
		return
	}

	results, err := geocoder.Search(query)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(results)
}

// ReverseGeocode resolves a coordinate pair to an address.
func ReverseGeocode(ctx iris.Context) {
	lat := ctx.URLParamDefault("lat", "")
	lon := ctx.URLParamDefault("lon", "")
	if lon == "" {
		lon = ctx.URLParamDefault("lng", "")
	}
	if lat == "" || lon == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"lat and lon query parameters are required.", ctx)
		return
	}

	result, err := geocoder.Reverse(lat, lon)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(result)
}
