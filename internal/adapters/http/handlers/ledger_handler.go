package handlers

import (
	"errors"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LedgerHandler handles read-only ledger endpoints: funds pool, funds
// history, member balances, member search, and member loans
type LedgerHandler struct {
	ledger  repositories.LedgerRepository
	members repositories.MemberRepository
	loans   repositories.LoanRepository
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledger repositories.LedgerRepository, members repositories.MemberRepository, loans repositories.LoanRepository) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, members: members, loans: loans}
}

// GetFundsPool returns the cooperative pooled funds balance
func (h *LedgerHandler) GetFundsPool(c *fiber.Ctx) error {
	amount, err := h.ledger.GetFundsPool(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load funds pool")
	}

	return response.Success(c, "OK", fiber.Map{
		"amount": amount,
	})
}

// GetFundsHistory returns the funds-history snapshot series for charting
func (h *LedgerHandler) GetFundsHistory(c *fiber.Ctx) error {
	snapshots, err := h.ledger.ListFundsHistory(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load funds history")
	}

	return response.Success(c, "OK", fiber.Map{
		"history": snapshots,
	})
}

// GetBalance returns a member's balance
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	memberID := c.Params("memberId")

	if _, err := h.members.GetByID(c.Context(), memberID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to load member")
	}

	amount, err := h.ledger.GetBalance(c.Context(), memberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load balance")
	}

	return response.Success(c, "OK", fiber.Map{
		"member_id": memberID,
		"amount":    amount,
	})
}

// SearchMembers searches members by name, id, or email
func (h *LedgerHandler) SearchMembers(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return response.BadRequest(c, "Query parameter q is required")
	}

	members, err := h.members.Search(c.Context(), query, 20)
	if err != nil {
		return response.InternalServerError(c, "Failed to search members")
	}

	return response.Success(c, "OK", fiber.Map{
		"members": members,
	})
}

// GetMemberLoans returns a member's loans so the caller can select which
// loan a payment applies to
func (h *LedgerHandler) GetMemberLoans(c *fiber.Ctx) error {
	memberID := c.Params("memberId")

	if _, err := h.members.GetByID(c.Context(), memberID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to load member")
	}

	loans, err := h.loans.ListByMember(c.Context(), memberID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load loans")
	}

	return response.Success(c, "OK", fiber.Map{
		"loans": loans,
	})
}
