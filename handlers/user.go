package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"splitsphere-backend/database"
	"splitsphere-backend/models"
	"splitsphere-backend/utils"
)

// GET /api/users/me
func GetProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", user.ToResponse())
}

// PUT /api/users/me
func UpdateProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		AvatarURL string `json:"avatar_url"`
		Currency  string `json:"currency"`
		UPIID     string `json:"upi_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if req.Currency != "" {
		updates["currency"] = strings.ToUpper(req.Currency)
	}
	if req.UPIID != "" {
		updates["upi_id"] = req.UPIID
	}

	database.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)

	var user models.User
	database.DB.First(&user, userID)
	utils.SuccessResponse(c, http.StatusOK, "Profile updated", user.ToResponse())
}

// PUT /api/users/me/fcm-token
func UpdateFCMToken(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req struct {
		FCMToken string `json:"fcm_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	database.DB.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", req.FCMToken)
	utils.SuccessResponse(c, http.StatusOK, "FCM token updated", nil)
}

// GET /api/users/search?q=... — find users by email or phone to add to a group
func SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 3 {
		utils.BadRequest(c, "Search query must be at least 3 characters")
		return
	}

	var users []models.User
	database.DB.Where("email ILIKE ? OR phone LIKE ? OR name ILIKE ?",
		"%"+query+"%", "%"+query+"%", "%"+query+"%").
		Limit(10).
		Find(&users)

	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}
