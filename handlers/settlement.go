package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"splitsphere-backend/database"
	"splitsphere-backend/ledger"
	"splitsphere-backend/models"
	"splitsphere-backend/money"
	"splitsphere-backend/services"
	"splitsphere-backend/utils"
)

// POST /api/groups/:id/settlements
func CreateSettlement(c *gin.Context) {
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

	var req models.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	paidTo, err := uuid.Parse(req.PaidTo)
	if err != nil {
		utils.BadRequest(c, "Invalid paid_to user ID")
		return
	}
	if !isMember(groupID, paidTo) {
		utils.BadRequest(c, "Recipient is not a member of this group")
		return
	}

	amount, err := money.ParseMajor(req.Amount)
	if err != nil {
		utils.BadRequest(c, "Invalid amount: "+req.Amount)
		return
	}

	settlement, err := Ledger.RecordSettlement(c.Request.Context(), groupID, userID, paidTo, amount, req.Notes)
	if err != nil {
		if ledger.IsValidation(err) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalError(c, "Failed to record settlement")
		}
		return
	}
	invalidateBalanceCache(groupID)

	markSettledSplits(c, groupID, userID)

	var payer, payee models.User
	database.DB.First(&payer, userID)
	database.DB.First(&payee, paidTo)
	var group models.Group
	database.DB.First(&group, groupID)

	services.RecordActivity(models.Activity{
		GroupID:     groupID,
		UserID:      userID,
		Type:        "settlement",
		ReferenceID: settlement.ID,
		Description: fmt.Sprintf("%s paid %s %s", payer.Name, payee.Name, amount.Major()),
	})

	var row models.Settlement
	database.DB.First(&row, settlement.ID)
	go services.GetNotificationService().NotifySettlement(row, payer, payee, group)

	utils.SuccessResponse(c, http.StatusCreated, "Settlement recorded", buildSettlementResponse(row))
}

// GET /api/groups/:id/settlements
func GetGroupSettlements(c *gin.Context) {
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

	var settlements []models.Settlement
	database.DB.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&settlements)

	var responses []models.SettlementResponse
	for _, s := range settlements {
		responses = append(responses, buildSettlementResponse(s))
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// markSettledSplits flags the payer's splits once their net position in
// the group reaches zero. Presentation only; the ledger is the truth.
func markSettledSplits(c *gin.Context, groupID, userID uuid.UUID) {
	balances, err := Ledger.ComputeBalance(c.Request.Context(), groupID)
	if err != nil || !balances[userID].IsZero() {
		return
	}

	var expenseIDs []uuid.UUID
	database.DB.Model(&models.Expense{}).Where("group_id = ?", groupID).Pluck("id", &expenseIDs)
	if len(expenseIDs) == 0 {
		return
	}
	database.DB.Model(&models.ExpenseSplit{}).
		Where("expense_id IN ? AND user_id = ?", expenseIDs, userID).
		Update("settled", true)
}

func buildSettlementResponse(s models.Settlement) models.SettlementResponse {
	return models.SettlementResponse{
		ID:          s.ID,
		GroupID:     s.GroupID,
		PaidBy:      s.PaidBy,
		PayerName:   userName(s.PaidBy),
		PaidTo:      s.PaidTo,
		PayeeName:   userName(s.PaidTo),
		AmountCents: s.AmountCents,
		Amount:      money.Money(s.AmountCents).Major(),
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
	}
}
