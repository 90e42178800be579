package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"splitsphere-backend/database"
	"splitsphere-backend/ledger"
	"splitsphere-backend/models"
	"splitsphere-backend/money"
	"splitsphere-backend/utils"
)

const balanceCacheTTL = 5 * time.Minute

// GET /api/groups/:id/balances
//
// Balances and the settlement plan are derived from the ledger on every
// request; redis only caches the serialized result and is dropped on
// every write, so a cache hit can never be stale.
func GetGroupBalances(c *gin.Context) {
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

	if database.Redis != nil {
		if cached, err := database.Redis.Get(context.Background(), balanceCacheKey(groupID)).Bytes(); err == nil {
			var summary models.GroupBalanceSummary
			if json.Unmarshal(cached, &summary) == nil {
				utils.SuccessResponse(c, http.StatusOK, "", summary)
				return
			}
		}
	}

	summary, err := buildGroupBalanceSummary(c.Request.Context(), groupID)
	if err != nil {
		utils.InternalError(c, "Failed to compute balances")
		return
	}

	if database.Redis != nil {
		if encoded, err := json.Marshal(summary); err == nil {
			database.Redis.Set(context.Background(), balanceCacheKey(groupID), encoded, balanceCacheTTL)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

func buildGroupBalanceSummary(ctx context.Context, groupID uuid.UUID) (models.GroupBalanceSummary, error) {
	balances, err := Ledger.ComputeBalance(ctx, groupID)
	if err != nil {
		return models.GroupBalanceSummary{}, err
	}

	// One ledger read serves both views, so the balances and the plan in a
	// response always come from the same snapshot.
	plan, err := ledger.Simplify(balances)
	if err != nil {
		return models.GroupBalanceSummary{}, err
	}

	var group models.Group
	database.DB.First(&group, groupID)

	// Reversal expenses cancel a mistake; neither side belongs in the
	// spending total.
	var totalSpent int64
	database.DB.Model(&models.Expense{}).
		Where("group_id = ? AND split_type <> ?", groupID, "reversal").
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&totalSpent)

	currency := groupCurrency(groupID)

	return models.GroupBalanceSummary{
		GroupID:         groupID,
		GroupName:       group.Name,
		Balances:        memberBalanceResponses(balances),
		SettlementPlan:  debtResponses(plan, currency),
		TotalSpentCents: totalSpent,
		TotalSpent:      money.Money(totalSpent).Major(),
	}, nil
}

// GET /api/balances — overall position against every friend, across all
// shared groups. Positive means the friend owes the caller.
func GetOverallBalances(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var memberships []models.GroupMember
	database.DB.Where("user_id = ?", userID).Find(&memberships)

	perFriend := map[uuid.UUID]money.Money{}
	for _, m := range memberships {
		plan, err := Ledger.ComputeSettlementPlan(c.Request.Context(), m.GroupID)
		if err != nil {
			utils.InternalError(c, "Failed to compute balances")
			return
		}
		for _, tr := range plan {
			switch userID {
			case tr.To:
				perFriend[tr.From] = perFriend[tr.From].Add(tr.Amount)
			case tr.From:
				perFriend[tr.To] = perFriend[tr.To].Sub(tr.Amount)
			}
		}
	}

	var me models.User
	database.DB.First(&me, userID)
	currency := me.Currency
	if currency == "" {
		currency = "INR"
	}

	friendIDs := make([]uuid.UUID, 0, len(perFriend))
	for id := range perFriend {
		friendIDs = append(friendIDs, id)
	}
	sort.Slice(friendIDs, func(i, j int) bool { return friendIDs[i].String() < friendIDs[j].String() })

	var totalOwed, totalOwing money.Money
	friends := make([]models.FriendBalance, 0, len(friendIDs))
	for _, id := range friendIDs {
		amount := perFriend[id]
		if amount.IsZero() {
			continue
		}
		if amount.IsPositive() {
			totalOwed = totalOwed.Add(amount)
		} else {
			totalOwing = totalOwing.Add(amount.Neg())
		}

		var friend models.User
		database.DB.First(&friend, id)
		friends = append(friends, models.FriendBalance{
			UserID:      id,
			Name:        friend.Name,
			Email:       friend.Email,
			AvatarURL:   friend.AvatarURL,
			AmountCents: int64(amount),
			Amount:      amount.Major(),
			Currency:    currency,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", models.OverallBalanceSummary{
		TotalOwedCents:  int64(totalOwed),
		TotalOwingCents: int64(totalOwing),
		TotalOwed:       totalOwed.Major(),
		TotalOwing:      totalOwing.Major(),
		Friends:         friends,
	})
}
