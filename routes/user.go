package routes

import (
	"strings"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"

	"rentify-server/models"
	"rentify-server/storage"
	"rentify-server/utils"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	emailTaken, emailErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if emailErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if emailTaken {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	usernameQuery := storage.DB.Where("username = ?", userInput.Username).Limit(1).Find(&models.User{})
	if usernameQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if usernameQuery.RowsAffected > 0 {
		utils.CreateError(iris.StatusConflict, "Registration Error", "Username already taken.", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser := models.User{
		Username: userInput.Username,
		Email:    strings.ToLower(userInput.Email),
		Password: hashedPassword,
		FullName: userInput.FullName,
	}

	storage.DB.Create(&newUser)

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	errorMsg := "Invalid username or password."

	// The identifier field accepts either a username or an email address.
	var existingUser models.User
	identifier := userInput.Identifier
	userQuery := storage.DB.
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		Limit(1).Find(&existingUser)
	if userQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.IsActive != nil && !*existingUser.IsActive {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Account is deactivated.", ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	returnUser(existingUser, ctx)
}

func ForgotPassword(ctx iris.Context) {
	var emailInput EmailRegisteredInput
	err := ctx.ReadJSON(&emailInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, emailInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Invalid email.", ctx)
		return
	}

	link := "rentify://resetpassword/"
	token, tokenErr := utils.CreateForgotPasswordToken(user.ID, user.Email)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	link += token
	subject := "Forgot Your Password?"

	html := `
	<p>It looks like you forgot your password.
	If you did, please click the link below to reset it.
	If you did not, disregard this email. Please update your password
	within 10 minutes, otherwise you will have to repeat this
	process. <a href=` + link + `>Click to Reset Password</a>
	</p><br />`

	emailSent, emailSentErr := utils.SendMail(user.Email, subject, html)
	if emailSentErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"emailSent": emailSent})
}

func ResetPassword(ctx iris.Context) {
	var password ResetPasswordInput
	err := ctx.ReadJSON(&password)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(password.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	claims := jsonWT.Get(ctx).(*utils.ForgotPasswordToken)

	updateQuery := storage.DB.Model(&models.User{}).
		Where("id = ?", claims.ID).
		Update("password", hashedPassword)
	if updateQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"passwordReset": true})
}

// GetMe returns the authenticated user's profile.
func GetMe(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	userQuery := storage.DB.Find(&user, userID)
	if userQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userQuery.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(user)
}

// GetUserItems returns the listings owned by a user.
func GetUserItems(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var items []models.Item
	itemsQuery := storage.DB.Preload("Category").
		Where("owner_id = ?", id).
		Order("created_at DESC").
		Find(&items)
	if itemsQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(items)
}

// DeactivateAccount soft-disables the authenticated user's account.
func DeactivateAccount(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	inactive := false
	updateQuery := storage.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", &inactive)
	if updateQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deactivated": true})
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"fullName":     user.FullName,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

type RegisterUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,max=256,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	FullName string `json:"fullName" validate:"max=256"`
}

type LoginUserInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type EmailRegisteredInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=8,max=256"`
}
