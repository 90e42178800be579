package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"splitsphere-backend/database"
	"splitsphere-backend/ledger"
	"splitsphere-backend/models"
	"splitsphere-backend/money"
	"splitsphere-backend/services"
	"splitsphere-backend/utils"
)

// POST /api/groups/:id/expenses
func CreateExpense(c *gin.Context) {
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

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	total, err := money.ParseMajor(req.Amount)
	if err != nil {
		utils.BadRequest(c, "Invalid amount: "+req.Amount)
		return
	}

	splits, err := resolveSplits(total, req.SplitType, req.Splits, groupMemberIDs(groupID))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	expense, err := Ledger.RecordExpense(c.Request.Context(), groupID, userID, req.Description, req.Category, total, splits)
	if err != nil {
		if ledger.IsValidation(err) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalError(c, "Failed to record expense")
		}
		return
	}
	invalidateBalanceCache(groupID)

	// The ledger event carries the accounting fields; fill in the
	// presentation-only columns on the stored row.
	currency := req.Currency
	if currency == "" {
		currency = groupCurrency(groupID)
	}
	updates := map[string]interface{}{
		"split_type": req.SplitType,
		"currency":   currency,
		"notes":      req.Notes,
	}
	if req.ExpenseDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.ExpenseDate); err == nil {
			updates["expense_date"] = parsed
		}
	}
	database.DB.Model(&models.Expense{}).Where("id = ?", expense.ID).Updates(updates)

	var payer models.User
	database.DB.First(&payer, userID)
	var group models.Group
	database.DB.First(&group, groupID)

	services.RecordActivity(models.Activity{
		GroupID:     groupID,
		UserID:      userID,
		Type:        "expense_added",
		ReferenceID: expense.ID,
		Description: fmt.Sprintf("%s added \"%s\" (%s %s)", payer.Name, req.Description, currency, total.Major()),
	})

	// Send notifications asynchronously
	var row models.Expense
	database.DB.Preload("Splits").First(&row, expense.ID)
	go services.GetNotificationService().NotifyExpenseAdded(row, row.Splits, payer, group)

	response := buildExpenseResponse(expense.ID)
	utils.SuccessResponse(c, http.StatusCreated, "Expense added", response)
}

// GET /api/groups/:id/expenses
func GetGroupExpenses(c *gin.Context) {
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

	var expenses []models.Expense
	database.DB.Where("group_id = ?", groupID).
		Order("expense_date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&expenses)

	var responses []models.ExpenseResponse
	for _, e := range expenses {
		responses = append(responses, buildExpenseResponse(e.ID))
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/expenses/:id
func GetExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isMember(expense.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", buildExpenseResponse(expenseID))
}

// DELETE /api/expenses/:id
//
// The ledger is append-only: nothing is ever removed from the history.
// "Deleting" an expense records offsetting expenses that cancel its
// effect on every balance, and marks the original as reversed.
func DeleteExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.Preload("Splits").First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isMember(expense.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	if err := reverseExpense(c, expense); err != nil {
		if errors.Is(err, errAlreadyReversed) || errors.Is(err, errReversalEntry) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalError(c, "Failed to reverse expense")
		}
		return
	}
	invalidateBalanceCache(expense.GroupID)

	services.RecordActivity(models.Activity{
		GroupID:     expense.GroupID,
		UserID:      userID,
		Type:        "expense_reversed",
		ReferenceID: expense.ID,
		Description: fmt.Sprintf("%s removed \"%s\" (%s %s)", userName(userID), expense.Description,
			expense.Currency, money.Money(expense.AmountCents).Major()),
	})

	utils.SuccessResponse(c, http.StatusOK, "Expense reversed", nil)
}

// PUT /api/expenses/:id
//
// Editing works the same way: reverse the old event, record a new one.
func UpdateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.Preload("Splits").First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isMember(expense.GroupID, userID) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	total, err := money.ParseMajor(req.Amount)
	if err != nil {
		utils.BadRequest(c, "Invalid amount: "+req.Amount)
		return
	}

	splits, err := resolveSplits(total, req.SplitType, req.Splits, groupMemberIDs(expense.GroupID))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	// Validate the replacement before touching the ledger; a rejected edit
	// must leave the original expense in effect.
	if _, err := ledger.NewExpense(expense.GroupID, expense.PaidBy, req.Description, req.Category, total, splits); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := reverseExpense(c, expense); err != nil {
		if errors.Is(err, errAlreadyReversed) || errors.Is(err, errReversalEntry) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalError(c, "Failed to reverse expense")
		}
		return
	}
	invalidateBalanceCache(expense.GroupID)

	replacement, err := Ledger.RecordExpense(c.Request.Context(), expense.GroupID, expense.PaidBy, req.Description, req.Category, total, splits)
	if err != nil {
		// Core validation passed above, so only storage failures land here.
		utils.InternalError(c, "Failed to record expense")
		return
	}
	invalidateBalanceCache(expense.GroupID)

	database.DB.Model(&models.Expense{}).Where("id = ?", replacement.ID).Updates(map[string]interface{}{
		"split_type": req.SplitType,
		"currency":   expense.Currency,
		"notes":      req.Notes,
	})

	services.RecordActivity(models.Activity{
		GroupID:     expense.GroupID,
		UserID:      userID,
		Type:        "expense_updated",
		ReferenceID: replacement.ID,
		Description: fmt.Sprintf("%s updated \"%s\"", userName(userID), req.Description),
	})

	response := buildExpenseResponse(replacement.ID)
	utils.SuccessResponse(c, http.StatusOK, "Expense updated", response)
}

// Sentinel errors for the reversal flow; the handlers map them to 400s.
var (
	errAlreadyReversed = errors.New("expense has already been reversed")
	errReversalEntry   = errors.New("reversal entries cannot be reversed")
)

type reversalEntry struct {
	payerID uuid.UUID
	total   money.Money
	splits  []ledger.Split
}

// reversalEntries builds the offsetting expenses that cancel an expense's
// effect on every balance: each non-payer debtor "pays back" their share
// to the original payer. The payer's own share cancelled itself in the
// original event, so it needs no entry. An expense can only be reversed
// once.
func reversalEntries(expense models.Expense) ([]reversalEntry, error) {
	if expense.SplitType == "reversal" {
		return nil, errReversalEntry
	}
	if expense.ReversedAt != nil {
		return nil, errAlreadyReversed
	}

	entries := make([]reversalEntry, 0, len(expense.Splits))
	for _, split := range expense.Splits {
		if split.UserID == expense.PaidBy || split.OwedCents == 0 {
			continue
		}
		owed := money.Money(split.OwedCents)
		entries = append(entries, reversalEntry{
			payerID: split.UserID,
			total:   owed,
			splits:  []ledger.Split{{MemberID: expense.PaidBy, Owed: owed}},
		})
	}
	return entries, nil
}

// reverseExpense appends the offsetting events and marks the original row
// reversed, so a retried delete cannot double-correct the balances.
func reverseExpense(c *gin.Context, expense models.Expense) error {
	entries, err := reversalEntries(expense)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		rev, err := Ledger.RecordExpense(
			c.Request.Context(),
			expense.GroupID,
			entry.payerID,
			fmt.Sprintf("Reversal of \"%s\"", expense.Description),
			expense.Category,
			entry.total,
			entry.splits,
		)
		if err != nil {
			return err
		}
		database.DB.Model(&models.Expense{}).Where("id = ?", rev.ID).Updates(map[string]interface{}{
			"split_type": "reversal",
			"currency":   expense.Currency,
		})
	}
	return database.DB.Model(&models.Expense{}).Where("id = ?", expense.ID).
		Update("reversed_at", time.Now()).Error
}

// resolveSplits turns the request's split description into exact
// minor-unit shares. Whatever the split type, the result always sums to
// the expense total: the integer allocator hands out remainder units
// deterministically, so nothing is lost to rounding.
func resolveSplits(total money.Money, splitType string, inputs []models.SplitInput, memberIDs []uuid.UUID) ([]ledger.Split, error) {
	switch splitType {
	case "equal":
		// Split equally among all group members
		if len(memberIDs) == 0 {
			return nil, fmt.Errorf("no members in group")
		}
		parts, err := money.SplitEven(total, len(memberIDs))
		if err != nil {
			return nil, err
		}
		splits := make([]ledger.Split, len(memberIDs))
		for i, id := range memberIDs {
			splits[i] = ledger.Split{MemberID: id, Owed: parts[i]}
		}
		return splits, nil

	case "exact":
		// Each person owes a specific amount
		if len(inputs) == 0 {
			return nil, fmt.Errorf("splits required for exact split type")
		}
		splits := make([]ledger.Split, 0, len(inputs))
		var sum money.Money
		for _, in := range inputs {
			uid, err := uuid.Parse(in.UserID)
			if err != nil {
				return nil, fmt.Errorf("invalid user ID: %s", in.UserID)
			}
			owed, err := money.ParseMajor(in.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid split amount %q for user %s", in.Value, in.UserID)
			}
			sum = sum.Add(owed)
			splits = append(splits, ledger.Split{MemberID: uid, Owed: owed})
		}
		if sum != total {
			return nil, fmt.Errorf("split amounts (%s) don't add up to total (%s)", sum, total)
		}
		return splits, nil

	case "percentage":
		// Each person owes a percentage; tracked in basis points so the
		// arithmetic stays integer-exact.
		uids, weights, err := parseWeights(inputs, 2)
		if err != nil {
			return nil, err
		}
		var totalBP int64
		for _, w := range weights {
			totalBP += w
		}
		if totalBP != 10000 {
			return nil, fmt.Errorf("percentages must add up to 100")
		}
		return allocateSplits(total, uids, weights)

	case "shares":
		// Split by shares (e.g., 2 shares, 1 share, 3 shares)
		uids, weights, err := parseWeights(inputs, 0)
		if err != nil {
			return nil, err
		}
		return allocateSplits(total, uids, weights)

	default:
		return nil, fmt.Errorf("invalid split type: %s", splitType)
	}
}

// parseWeights reads split values as non-negative integers after shifting
// by the given number of decimal places (2 for percentages, 0 for shares).
func parseWeights(inputs []models.SplitInput, shift int32) ([]uuid.UUID, []int64, error) {
	if len(inputs) == 0 {
		return nil, nil, fmt.Errorf("splits required for this split type")
	}
	uids := make([]uuid.UUID, 0, len(inputs))
	weights := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		uid, err := uuid.Parse(in.UserID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid user ID: %s", in.UserID)
		}
		d, err := decimal.NewFromString(in.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid split value %q for user %s", in.Value, in.UserID)
		}
		shifted := d.Shift(shift)
		if !shifted.IsInteger() || shifted.IsNegative() {
			return nil, nil, fmt.Errorf("invalid split value %q for user %s", in.Value, in.UserID)
		}
		uids = append(uids, uid)
		weights = append(weights, shifted.IntPart())
	}
	return uids, weights, nil
}

func allocateSplits(total money.Money, uids []uuid.UUID, weights []int64) ([]ledger.Split, error) {
	parts, err := money.Allocate(total, weights)
	if err != nil {
		return nil, err
	}
	splits := make([]ledger.Split, len(uids))
	for i, uid := range uids {
		splits[i] = ledger.Split{MemberID: uid, Owed: parts[i]}
	}
	return splits, nil
}

// Build expense response with payer name and split details
func buildExpenseResponse(expenseID uuid.UUID) models.ExpenseResponse {
	var expense models.Expense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		return models.ExpenseResponse{}
	}

	var payer models.User
	database.DB.First(&payer, expense.PaidBy)

	var dbSplits []models.ExpenseSplit
	database.DB.Where("expense_id = ?", expenseID).Find(&dbSplits)

	var splitResponses []models.SplitResponse
	for _, s := range dbSplits {
		splitResponses = append(splitResponses, models.SplitResponse{
			UserID:    s.UserID,
			UserName:  userName(s.UserID),
			OwedCents: s.OwedCents,
			Owed:      money.Money(s.OwedCents).Major(),
			Settled:   s.Settled,
		})
	}

	return models.ExpenseResponse{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		PaidBy:      expense.PaidBy,
		PayerName:   payer.Name,
		Description: expense.Description,
		AmountCents: expense.AmountCents,
		Amount:      money.Money(expense.AmountCents).Major(),
		Currency:    expense.Currency,
		Category:    expense.Category,
		SplitType:   expense.SplitType,
		Notes:       expense.Notes,
		ExpenseDate: expense.ExpenseDate,
		ReversedAt:  expense.ReversedAt,
		Splits:      splitResponses,
		CreatedAt:   expense.CreatedAt,
	}
}
