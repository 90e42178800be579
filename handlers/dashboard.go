package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"splitsphere-backend/database"
	"splitsphere-backend/models"
	"splitsphere-backend/money"
	"splitsphere-backend/utils"
)

// GET /api/dashboard — everything the home screen needs in one call
func GetDashboard(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var memberships []models.GroupMember
	database.DB.Where("user_id = ?", userID).Find(&memberships)

	var groupIDs []uuid.UUID
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	var youOwe, youAreOwed money.Money
	for _, gid := range groupIDs {
		balances, err := Ledger.ComputeBalance(c.Request.Context(), gid)
		if err != nil {
			utils.InternalError(c, "Failed to compute balances")
			return
		}
		net := balances[userID]
		if net.IsPositive() {
			youAreOwed = youAreOwed.Add(net)
		} else if net.IsNegative() {
			youOwe = youOwe.Add(net.Neg())
		}
	}
	total := youAreOwed.Sub(youOwe)

	response := models.DashboardResponse{
		Balance: models.DashboardBalance{
			TotalCents:      int64(total),
			Total:           total.Major(),
			YouOweCents:     int64(youOwe),
			YouOwe:          youOwe.Major(),
			YouAreOwedCents: int64(youAreOwed),
			YouAreOwed:      youAreOwed.Major(),
		},
		RecentExpenses: recentExpenses(groupIDs),
		SpendingData:   monthlySpending(userID, groupIDs),
		Groups:         []models.GroupResponse{},
	}

	for _, gid := range groupIDs {
		response.Groups = append(response.Groups, buildGroupResponse(gid))
	}

	utils.SuccessResponse(c, http.StatusOK, "", response)
}

func recentExpenses(groupIDs []uuid.UUID) []models.RecentExpense {
	recent := []models.RecentExpense{}
	if len(groupIDs) == 0 {
		return recent
	}

	var expenses []models.Expense
	database.DB.Where("group_id IN ? AND split_type <> ?", groupIDs, "reversal").
		Order("created_at DESC").
		Limit(5).
		Find(&expenses)

	groupNames := map[uuid.UUID]string{}
	for _, e := range expenses {
		name, ok := groupNames[e.GroupID]
		if !ok {
			var group models.Group
			database.DB.First(&group, e.GroupID)
			name = group.Name
			groupNames[e.GroupID] = name
		}
		recent = append(recent, models.RecentExpense{
			ExpenseResponse: buildExpenseResponse(e.ID),
			GroupName:       name,
		})
	}
	return recent
}

// monthlySpending sums the user's own share of expenses for the last six
// months. Bucketing happens in Go; the query just fetches the window.
func monthlySpending(userID uuid.UUID, groupIDs []uuid.UUID) []models.SpendingPoint {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)

	points := make([]models.SpendingPoint, 6)
	index := map[string]int{}
	for i := 0; i < 6; i++ {
		month := start.AddDate(0, i, 0)
		key := month.Format("2006-01")
		points[i] = models.SpendingPoint{Name: month.Format("Jan"), Amount: money.Money(0).Major()}
		index[key] = i
	}

	if len(groupIDs) == 0 {
		return points
	}

	type row struct {
		OwedCents   int64
		ExpenseDate time.Time
	}
	var rows []row
	database.DB.Model(&models.ExpenseSplit{}).
		Select("expense_splits.owed_cents, expenses.expense_date").
		Joins("JOIN expenses ON expenses.id = expense_splits.expense_id").
		Where("expense_splits.user_id = ? AND expenses.group_id IN ? AND expenses.split_type <> ? AND expenses.expense_date >= ?",
			userID, groupIDs, "reversal", start).
		Scan(&rows)

	for _, r := range rows {
		if i, ok := index[r.ExpenseDate.Format("2006-01")]; ok {
			points[i].AmountCents += r.OwedCents
		}
	}
	for i := range points {
		points[i].Amount = money.Money(points[i].AmountCents).Major()
	}
	return points
}
