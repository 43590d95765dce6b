package routes

import (
	"github.com/kataras/iris/v12"

	"rentify-server/models"
	"rentify-server/storage"
	"rentify-server/utils"
)

func GetCategories(ctx iris.Context) {
	var categories []models.Category
	categoriesQuery := storage.DB.Order("name ASC").Find(&categories)
	if categoriesQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(categories)
}

func CreateCategory(ctx iris.Context) {
	var categoryInput CreateCategoryInput
	err := ctx.ReadJSON(&categoryInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	existingQuery := storage.DB.Where("name = ?", categoryInput.Name).
		Limit(1).Find(&models.Category{})
	if existingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existingQuery.RowsAffected > 0 {
		utils.CreateError(iris.StatusConflict, "Category Error",
			"A category with this name already exists.", ctx)
		return
	}

	category := models.Category{
		Name:        categoryInput.Name,
		Description: categoryInput.Description,
	}

	createQuery := storage.DB.Create(&category)
	if createQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(category)
}

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description" validate:"max=1024"`
}
