package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"splitsphere-backend/database"
	"splitsphere-backend/models"
	"splitsphere-backend/utils"
)

// GET /api/activity — recent activity across all the caller's groups
func GetActivity(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var memberships []models.GroupMember
	database.DB.Where("user_id = ?", userID).Find(&memberships)

	var groupIDs []uuid.UUID
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	if len(groupIDs) == 0 {
		utils.SuccessResponse(c, http.StatusOK, "", []models.Activity{})
		return
	}

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	database.DB.Where("group_id IN ?", groupIDs).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	attachGroupNames(activities)
	utils.SuccessResponse(c, http.StatusOK, "", activities)
}

// GET /api/groups/:id/activity
func GetGroupActivity(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid group ID")
		return
	}

	if !isMember(groupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	database.DB.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	attachGroupNames(activities)
	utils.SuccessResponse(c, http.StatusOK, "", activities)
}

func attachGroupNames(activities []models.Activity) {
	names := map[uuid.UUID]string{}
	for i := range activities {
		name, ok := names[activities[i].GroupID]
		if !ok {
			var group models.Group
			database.DB.First(&group, activities[i].GroupID)
			name = group.Name
			names[activities[i].GroupID] = name
		}
		activities[i].GroupName = name
	}
}
