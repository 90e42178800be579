package handlers

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"splitsphere-backend/database"
	"splitsphere-backend/ledger"
	"splitsphere-backend/models"
)

// Ledger is the expense ledger and debt-settlement engine every handler
// talks to. Wired in main after the database connects.
var Ledger *ledger.Service

func Init(svc *ledger.Service) {
	Ledger = svc
}

// Helper: check group membership
func isMember(groupID, userID uuid.UUID) bool {
	var count int64
	database.DB.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", groupID, userID).Count(&count)
	return count > 0
}

// groupMemberIDs returns the group's member IDs in a stable order, so
// equal splits hand the remainder units to the same members every time.
func groupMemberIDs(groupID uuid.UUID) []uuid.UUID {
	var members []models.GroupMember
	database.DB.Where("group_id = ?", groupID).Order("user_id").Find(&members)

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func userName(userID uuid.UUID) string {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return ""
	}
	return user.Name
}

// balanceCacheKey is the redis key holding a group's cached settlement
// plan; every accepted append for the group deletes it.
func balanceCacheKey(groupID uuid.UUID) string {
	return fmt.Sprintf("balances:%s", groupID)
}

func invalidateBalanceCache(groupID uuid.UUID) {
	if database.Redis == nil {
		return
	}
	if err := database.Redis.Del(context.Background(), balanceCacheKey(groupID)).Err(); err != nil {
		log.Printf("⚠️  Failed to invalidate balance cache for %s: %v", groupID, err)
	}
}

// debtResponses resolves a settlement plan into the API shape, with names.
func debtResponses(plan []ledger.Transfer, currency string) []models.DebtResponse {
	debts := make([]models.DebtResponse, 0, len(plan))
	for _, tr := range plan {
		debts = append(debts, models.DebtResponse{
			From:        tr.From,
			FromName:    userName(tr.From),
			To:          tr.To,
			ToName:      userName(tr.To),
			AmountCents: int64(tr.Amount),
			Amount:      tr.Amount.Major(),
			Currency:    currency,
		})
	}
	return debts
}

// memberBalanceResponses flattens a NetBalance map into a response sorted
// by member ID so the output is reproducible.
func memberBalanceResponses(nb ledger.NetBalance) []models.MemberBalanceResponse {
	ids := make([]uuid.UUID, 0, len(nb))
	for id := range nb {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	out := make([]models.MemberBalanceResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.MemberBalanceResponse{
			UserID:       id,
			Name:         userName(id),
			BalanceCents: int64(nb[id]),
			Balance:      nb[id].Major(),
		})
	}
	return out
}
