package handlers

import (
	"encoding/base64"
	"errors"
	"strings"

	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/core/services"
	"smpc-coopfund/internal/pkg/pagination"
	"smpc-coopfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ApplicationHandler handles application lifecycle endpoints
type ApplicationHandler struct {
	lifecycle *services.LifecycleService
	listing   *services.ListingService
	notifier  services.Notifier
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(lifecycle *services.LifecycleService, listing *services.ListingService, notifier services.Notifier) *ApplicationHandler {
	return &ApplicationHandler{
		lifecycle: lifecycle,
		listing:   listing,
		notifier:  notifier,
	}
}

// domainFromParam maps the URL segment to a request domain
func domainFromParam(param string) (domain.Domain, bool) {
	switch strings.ToLower(param) {
	case "deposits":
		return domain.DomainDeposit, true
	case "withdrawals":
		return domain.DomainWithdrawal, true
	case "loan-payments":
		return domain.DomainLoanPayment, true
	case "loan-applications":
		return domain.DomainLoanApplication, true
	}
	return "", false
}

// approverFromContext builds the approver identity set by the auth middleware
func approverFromContext(c *fiber.Ctx) services.Approver {
	id, _ := c.Locals("staffID").(string)
	name, _ := c.Locals("staffName").(string)
	return services.Approver{ID: id, Name: name}
}

// serviceError maps domain errors onto HTTP responses, keeping the breakdown
// business-rule rejections carry
func serviceError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return response.BadRequest(c, ve.Error())
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return response.NotFound(c, nf.Error())
	}

	var ife *domain.InsufficientFundsError
	if errors.As(err, &ife) {
		return response.ErrorWithData(c, fiber.StatusUnprocessableEntity, ife.Error(), fiber.Map{
			"requested": ife.Requested,
			"balance":   ife.Balance,
		})
	}

	var upe *domain.UnderpaymentError
	if errors.As(err, &upe) {
		return response.ErrorWithData(c, fiber.StatusUnprocessableEntity, upe.Error(), fiber.Map{
			"amount_paid":     upe.AmountPaid,
			"monthly_payment": upe.MonthlyPayment,
			"penalty":         upe.Penalty,
			"total_due":       upe.TotalDue,
			"overdue_days":    upe.OverdueDays,
		})
	}

	var are *domain.AlreadyResolvedError
	if errors.As(err, &are) {
		return response.Conflict(c, are.Error())
	}

	var se *domain.StoreError
	if errors.As(err, &se) {
		// Safe for the caller to retry: resolution is idempotency-guarded
		return response.Error(c, fiber.StatusServiceUnavailable, "Store unavailable, please retry")
	}

	return response.InternalServerError(c, "Operation failed")
}

// SubmitRequest represents a submission request body
type SubmitRequest struct {
	MemberID      string `json:"member_id"`
	Amount        string `json:"amount"`
	Channel       string `json:"channel,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`

	SelectedLoanID string `json:"selected_loan_id,omitempty"`
	// ProofOfPayment is the base64-encoded proof image for loan payments
	ProofOfPayment string `json:"proof_of_payment,omitempty"`
	ProofFilename  string `json:"proof_filename,omitempty"`

	TermMonths int    `json:"term_months,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
}

// Submit creates a pending application
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	d, ok := domainFromParam(c.Params("domain"))
	if !ok {
		return response.BadRequest(c, "Unknown request domain")
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MemberID == "" {
		return response.BadRequest(c, "Member id is required")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}

	var proof []byte
	if req.ProofOfPayment != "" {
		proof, err = base64.StdEncoding.DecodeString(req.ProofOfPayment)
		if err != nil {
			return response.BadRequest(c, "Proof of payment must be base64 encoded")
		}
	}

	input := &services.SubmitInput{
		Domain:         d,
		MemberID:       req.MemberID,
		Amount:         amount,
		Channel:        req.Channel,
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		SelectedLoanID: req.SelectedLoanID,
		ProofOfPayment: proof,
		ProofFilename:  req.ProofFilename,
		TermMonths:     req.TermMonths,
		Purpose:        req.Purpose,
	}

	app, err := h.lifecycle.Submit(c.Context(), input)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, "Application submitted", fiber.Map{
		"application": app,
	})
}

// Approve resolves a pending application as approved. The notification is
// dispatched only after the durable result exists, off the request path.
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	d, ok := domainFromParam(c.Params("domain"))
	if !ok {
		return response.BadRequest(c, "Unknown request domain")
	}

	outcome, err := h.lifecycle.Approve(c.Context(),
		d, c.Params("memberId"), c.Params("txnId"), approverFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}

	go h.notifier.NotifyOutcome(outcome)

	return response.Success(c, "Application approved", fiber.Map{
		"outcome": outcome,
	})
}

// RejectRequest represents a rejection request body
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject resolves a pending application as rejected
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	d, ok := domainFromParam(c.Params("domain"))
	if !ok {
		return response.BadRequest(c, "Unknown request domain")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	outcome, err := h.lifecycle.Reject(c.Context(),
		d, c.Params("memberId"), c.Params("txnId"), req.Reason, approverFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}

	go h.notifier.NotifyOutcome(outcome)

	return response.Success(c, "Application rejected", fiber.Map{
		"outcome": outcome,
	})
}

// List lists applications or outcomes for a domain
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	d, ok := domainFromParam(c.Params("domain"))
	if !ok {
		return response.BadRequest(c, "Unknown request domain")
	}

	status := domain.Status(strings.ToUpper(c.Query("status", string(domain.StatusPending))))
	params := pagination.GetParams(c)

	out, err := h.listing.List(c.Context(), &services.ListInput{
		Domain: d,
		Status: status,
		Filter: c.Query("q"),
		Page:   params.Page,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "OK", out)
}

// Feed returns a member's unified transaction feed
func (h *ApplicationHandler) Feed(c *fiber.Ctx) error {
	entries, err := h.listing.Feed(c.Context(), c.Params("memberId"))
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "OK", fiber.Map{
		"transactions": entries,
	})
}

// RejectReasons returns the enumerated rejection reasons for the UI
func (h *ApplicationHandler) RejectReasons(c *fiber.Ctx) error {
	return response.Success(c, "OK", fiber.Map{
		"reasons": services.RejectReasons,
	})
}
