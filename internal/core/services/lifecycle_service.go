package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/adapters/storage"
	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/core/penalty"
	"smpc-coopfund/internal/pkg/dates"
	"smpc-coopfund/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// Lifecycle service errors
var (
	ErrTransactionIDExhausted = errors.New("could not allocate a unique transaction id")
)

// RejectReasons is the enumerated set offered to staff. "Other" requires
// custom text and is not accepted verbatim.
var RejectReasons = []string{
	"Invalid proof of payment",
	"Incorrect amount",
	"Unverified channel account",
	"Duplicate request",
	"Other",
}

const txnIDAttempts = 5

// Approver identifies the staff member resolving an application
type Approver struct {
	ID   string
	Name string
}

// LifecycleService orchestrates the application state machine: it is the
// only mutator of member balances and the cooperative funds pool.
// Notification dispatch is deliberately not part of any operation here; the
// caller invokes the Notifier after a durable result is returned, so ledger
// correctness never depends on delivery.
type LifecycleService struct {
	apps        repositories.ApplicationRepository
	ledger      repositories.LedgerRepository
	members     repositories.MemberRepository
	loans       repositories.LoanRepository
	blobs       storage.BlobStore
	monthlyRate decimal.Decimal
	now         func() time.Time

	// rng backs transaction-id allocation. Submissions run concurrently and
	// math/rand sources are not safe for concurrent use, so every draw holds
	// the mutex.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	apps repositories.ApplicationRepository,
	ledger repositories.LedgerRepository,
	members repositories.MemberRepository,
	loans repositories.LoanRepository,
	blobs storage.BlobStore,
	monthlyRate decimal.Decimal,
) *LifecycleService {
	return &LifecycleService{
		apps:        apps,
		ledger:      ledger,
		members:     members,
		loans:       loans,
		blobs:       blobs,
		monthlyRate: monthlyRate,
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SubmitInput represents a member-submitted financial request
type SubmitInput struct {
	Domain        domain.Domain
	MemberID      string
	Amount        decimal.Decimal
	Channel       string
	AccountName   string
	AccountNumber string

	// LoanPayment fields
	SelectedLoanID string
	ProofOfPayment []byte
	ProofFilename  string

	// LoanApplication fields
	TermMonths int
	Purpose    string
}

// Submit validates a request, allocates a transaction id, and persists it as
// a pending application
func (s *LifecycleService) Submit(ctx context.Context, input *SubmitInput) (*domain.Application, error) {
	if !input.Domain.Valid() {
		return nil, domain.NewValidationError("domain", "unknown request domain")
	}
	if !input.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "must be greater than 0")
	}

	member, err := s.members.GetByID(ctx, input.MemberID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "member", Key: input.MemberID}
		}
		return nil, &domain.StoreError{Op: "get", Path: "member", Err: err}
	}

	app := &domain.Application{
		MemberID:      input.MemberID,
		Domain:        input.Domain,
		Amount:        money.RoundToCents(input.Amount),
		Channel:       input.Channel,
		AccountName:   input.AccountName,
		AccountNumber: input.AccountNumber,
		MemberName:    member.FullName,
		Status:        domain.StatusPending,
		SubmittedAt:   s.now(),
	}

	switch input.Domain {
	case domain.DomainDeposit, domain.DomainWithdrawal:
		if input.Channel == "" {
			return nil, domain.NewValidationError("channel", "payment channel is required")
		}
	case domain.DomainLoanPayment:
		details, err := s.buildLoanPaymentDetails(ctx, member, input)
		if err != nil {
			return nil, err
		}
		app.LoanPayment = details
	case domain.DomainLoanApplication:
		if input.TermMonths < 1 {
			return nil, domain.NewValidationError("term_months", "must be at least 1")
		}
		app.LoanApplication = &domain.LoanApplicationDetails{
			TermMonths: input.TermMonths,
			Purpose:    input.Purpose,
		}
	}

	// Allocate a 6-digit transaction id unique within the member's domain
	// collection; the conditional create detects collisions.
	for attempt := 0; attempt < txnIDAttempts; attempt++ {
		s.rngMu.Lock()
		id := s.rng.Intn(1000000)
		s.rngMu.Unlock()
		app.TransactionID = fmt.Sprintf("%06d", id)
		err := s.apps.CreatePending(ctx, app)
		if err == nil {
			return app, nil
		}
		if !errors.Is(err, docstore.ErrPathExists) {
			return nil, &domain.StoreError{Op: "create", Path: "application", Err: err}
		}
	}
	return nil, ErrTransactionIDExhausted
}

// buildLoanPaymentDetails validates a loan payment submission and snapshots
// the penalty breakdown at submission time
func (s *LifecycleService) buildLoanPaymentDetails(ctx context.Context, member *domain.Member, input *SubmitInput) (*domain.LoanPaymentDetails, error) {
	if input.SelectedLoanID == "" {
		return nil, domain.NewValidationError("selected_loan_id", "a loan must be selected")
	}
	if len(input.ProofOfPayment) == 0 {
		return nil, domain.NewValidationError("proof_of_payment", "proof of payment is required")
	}

	loan, err := s.loans.Get(ctx, input.MemberID, input.SelectedLoanID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "loan", Key: input.SelectedLoanID}
		}
		return nil, &domain.StoreError{Op: "get", Path: "loan", Err: err}
	}

	name := input.ProofFilename
	if name == "" {
		name = "proof"
	}
	proofURL, err := s.blobs.Upload(ctx,
		fmt.Sprintf("proofs/%s/%s-%s", input.MemberID, input.SelectedLoanID, name),
		input.ProofOfPayment)
	if err != nil {
		return nil, &domain.StoreError{Op: "upload", Path: "proof", Err: err}
	}

	breakdown := penalty.Compute(loan, member.CachedLoanInterest, s.now())
	return &domain.LoanPaymentDetails{
		SelectedLoanID: input.SelectedLoanID,
		ProofOfPayment: proofURL,
		Penalty:        breakdown.Penalty,
		OverdueDays:    breakdown.OverdueDays,
		MonthlyPayment: money.RoundToCents(loan.TotalMonthlyPayment),
	}, nil
}

// Approve resolves a pending application as approved, mutating the ledger
// for the domains that require it. Re-invocation after a prior success trips
// the idempotency guard instead of double-mutating the ledger.
func (s *LifecycleService) Approve(ctx context.Context, d domain.Domain, memberID, txnID string, approver Approver) (*domain.Outcome, error) {
	if !d.Valid() {
		return nil, domain.NewValidationError("domain", "unknown request domain")
	}

	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "member", Key: memberID}
		}
		return nil, &domain.StoreError{Op: "get", Path: "member", Err: err}
	}

	app, err := s.loadUnresolved(ctx, d, memberID, txnID)
	if err != nil {
		return nil, err
	}

	// Domain precondition check and ledger mutation. Mutation and outcome
	// write are not atomic across keys; a crash in between is reconciled
	// from audit logs, and retries stop at the guard above.
	switch d {
	case domain.DomainDeposit:
		if err := s.applyDeposit(ctx, app); err != nil {
			return nil, err
		}
	case domain.DomainWithdrawal:
		if err := s.applyWithdrawal(ctx, app); err != nil {
			return nil, err
		}
	case domain.DomainLoanPayment:
		if err := s.applyLoanPayment(ctx, member, app); err != nil {
			return nil, err
		}
	case domain.DomainLoanApplication:
		if err := s.bookLoan(ctx, app); err != nil {
			return nil, err
		}
	}

	return s.writeOutcome(ctx, app, domain.StatusApproved, "", approver)
}

// Reject resolves a pending application as rejected. No ledger mutation
// occurs. The reason is required; "Other" must be replaced by custom text.
func (s *LifecycleService) Reject(ctx context.Context, d domain.Domain, memberID, txnID, reason string, approver Approver) (*domain.Outcome, error) {
	if !d.Valid() {
		return nil, domain.NewValidationError("domain", "unknown request domain")
	}
	if reason == "" {
		return nil, domain.NewValidationError("rejection_reason", "a reason is required")
	}
	if reason == "Other" {
		return nil, domain.NewValidationError("rejection_reason", "custom text is required when the reason is Other")
	}

	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "member", Key: memberID}
		}
		return nil, &domain.StoreError{Op: "get", Path: "member", Err: err}
	}

	app, err := s.loadUnresolved(ctx, d, memberID, txnID)
	if err != nil {
		return nil, err
	}

	return s.writeOutcome(ctx, app, domain.StatusRejected, reason, approver)
}

// loadUnresolved loads a pending application after checking the idempotency
// guard: an existing outcome, or a pending record already marked terminal,
// refuses resolution.
func (s *LifecycleService) loadUnresolved(ctx context.Context, d domain.Domain, memberID, txnID string) (*domain.Application, error) {
	existing, err := s.apps.GetOutcome(ctx, d, memberID, txnID)
	if err == nil {
		return nil, &domain.AlreadyResolvedError{
			Domain: d, MemberID: memberID, TransactionID: txnID, Status: existing.Status,
		}
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, &domain.StoreError{Op: "get", Path: "outcome", Err: err}
	}

	app, err := s.apps.GetPending(ctx, d, memberID, txnID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, &domain.NotFoundError{Resource: "application", Key: txnID}
		}
		return nil, &domain.StoreError{Op: "get", Path: "application", Err: err}
	}
	if app.Status.Terminal() {
		return nil, &domain.AlreadyResolvedError{
			Domain: d, MemberID: memberID, TransactionID: txnID, Status: app.Status,
		}
	}
	return app, nil
}

// applyDeposit increases the member balance and the pooled funds
func (s *LifecycleService) applyDeposit(ctx context.Context, app *domain.Application) error {
	balance, err := s.ledger.GetBalance(ctx, app.MemberID)
	if err != nil {
		return &domain.StoreError{Op: "get", Path: "balance", Err: err}
	}
	pool, err := s.ledger.GetFundsPool(ctx)
	if err != nil {
		return &domain.StoreError{Op: "get", Path: "funds pool", Err: err}
	}

	if err := s.ledger.SetBalance(ctx, app.MemberID, money.RoundToCents(balance.Add(app.Amount))); err != nil {
		return &domain.StoreError{Op: "set", Path: "balance", Err: err}
	}
	if err := s.ledger.SetFundsPool(ctx, money.RoundToCents(pool.Add(app.Amount))); err != nil {
		return &domain.StoreError{Op: "set", Path: "funds pool", Err: err}
	}
	return nil
}

// applyWithdrawal decreases the member balance and the pooled funds, and
// appends a funds-history snapshot. No mutation happens when either side
// would go negative.
func (s *LifecycleService) applyWithdrawal(ctx context.Context, app *domain.Application) error {
	balance, err := s.ledger.GetBalance(ctx, app.MemberID)
	if err != nil {
		return &domain.StoreError{Op: "get", Path: "balance", Err: err}
	}
	pool, err := s.ledger.GetFundsPool(ctx)
	if err != nil {
		return &domain.StoreError{Op: "get", Path: "funds pool", Err: err}
	}

	if app.Amount.GreaterThan(balance) {
		return &domain.InsufficientFundsError{Requested: app.Amount, Balance: balance}
	}
	if app.Amount.GreaterThan(pool) {
		return &domain.InsufficientFundsError{Requested: app.Amount, Balance: balance, PoolShort: true, Pool: pool}
	}

	newPool := money.RoundToCents(pool.Sub(app.Amount))
	if err := s.ledger.SetBalance(ctx, app.MemberID, money.RoundToCents(balance.Sub(app.Amount))); err != nil {
		return &domain.StoreError{Op: "set", Path: "balance", Err: err}
	}
	if err := s.ledger.SetFundsPool(ctx, newPool); err != nil {
		return &domain.StoreError{Op: "set", Path: "funds pool", Err: err}
	}
	if err := s.ledger.AppendFundsSnapshot(ctx, newPool); err != nil {
		// History is a chart series, not the ledger of record
		log.Printf("⚠️ Failed to append funds snapshot: %v", err)
	}
	return nil
}

// applyLoanPayment re-evaluates the penalty at approval time, enforces the
// overdue total, and decreases the member balance. The funds pool is left
// untouched for loan payments.
func (s *LifecycleService) applyLoanPayment(ctx context.Context, member *domain.Member, app *domain.Application) error {
	details := app.LoanPayment
	if details == nil || details.SelectedLoanID == "" {
		return domain.NewValidationError("selected_loan_id", "a loan must be selected")
	}

	loan, err := s.loans.Get(ctx, app.MemberID, details.SelectedLoanID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return &domain.NotFoundError{Resource: "loan", Key: details.SelectedLoanID}
		}
		return &domain.StoreError{Op: "get", Path: "loan", Err: err}
	}

	now := s.now()
	breakdown := penalty.Compute(loan, member.CachedLoanInterest, now)
	if breakdown.OverdueDays > 0 && app.Amount.LessThan(breakdown.TotalDue) {
		return &domain.UnderpaymentError{
			AmountPaid:     app.Amount,
			MonthlyPayment: money.RoundToCents(loan.TotalMonthlyPayment),
			Penalty:        breakdown.Penalty,
			TotalDue:       breakdown.TotalDue,
			OverdueDays:    breakdown.OverdueDays,
		}
	}

	balance, err := s.ledger.GetBalance(ctx, app.MemberID)
	if err != nil {
		return &domain.StoreError{Op: "get", Path: "balance", Err: err}
	}
	if app.Amount.GreaterThan(balance) {
		return &domain.InsufficientFundsError{Requested: app.Amount, Balance: balance}
	}
	if err := s.ledger.SetBalance(ctx, app.MemberID, money.RoundToCents(balance.Sub(app.Amount))); err != nil {
		return &domain.StoreError{Op: "set", Path: "balance", Err: err}
	}

	// Refresh the approval-time breakdown onto the record and advance the
	// loan's due date by one cycle
	details.Penalty = breakdown.Penalty
	details.OverdueDays = breakdown.OverdueDays
	details.MonthlyPayment = money.RoundToCents(loan.TotalMonthlyPayment)

	dueRaw := loan.DueDate
	if dueRaw == "" {
		dueRaw = loan.NextDueDate
	}
	due, fallback := dates.ParseOrNow(dueRaw)
	if fallback {
		due = now
	}
	loan.DueDate = due.AddDate(0, 1, 0).Format(dates.DisplayLayout)
	if err := s.loans.Update(ctx, loan); err != nil {
		log.Printf("⚠️ Failed to advance due date for loan %s/%s: %v", app.MemberID, loan.LoanID, err)
	}
	return nil
}

// bookLoan creates the member's loan record for an approved loan
// application. Interest is fixed at approval time as an absolute amount;
// neither the balance nor the funds pool moves here.
func (s *LifecycleService) bookLoan(ctx context.Context, app *domain.Application) error {
	details := app.LoanApplication
	if details == nil || details.TermMonths < 1 {
		return domain.NewValidationError("term_months", "must be at least 1")
	}

	term := decimal.NewFromInt(int64(details.TermMonths))
	interest := money.RoundToCents(app.Amount.Mul(s.monthlyRate).Mul(term))
	monthly := money.RoundToCents(app.Amount.Add(interest).Div(term))

	now := s.now()
	loan := &domain.Loan{
		MemberID:            app.MemberID,
		LoanID:              app.TransactionID,
		LoanAmount:          app.Amount,
		Interest:            interest,
		TotalMonthlyPayment: monthly,
		TermMonths:          details.TermMonths,
		DueDate:             now.AddDate(0, 1, 0).Format(dates.DisplayLayout),
		Status:              domain.LoanStatusActive,
		ApprovedAt:          now,
	}

	err := s.loans.Create(ctx, loan)
	if err != nil {
		if errors.Is(err, docstore.ErrPathExists) {
			return &domain.AlreadyResolvedError{
				Domain: app.Domain, MemberID: app.MemberID,
				TransactionID: app.TransactionID, Status: domain.StatusApproved,
			}
		}
		return &domain.StoreError{Op: "create", Path: "loan", Err: err}
	}
	return nil
}

// writeOutcome stamps resolution metadata, writes the outcome record and the
// feed copy, and marks the retained pending record resolved. The conditional
// outcome write is the serialization point against a concurrent resolution.
func (s *LifecycleService) writeOutcome(ctx context.Context, app *domain.Application, status domain.Status, reason string, approver Approver) (*domain.Outcome, error) {
	now := s.now()
	resolution := domain.Resolution{
		ResolvedBy:      approver.Name,
		ResolvedAt:      now,
		Date:            now.Format(dates.DisplayLayout),
		Time:            now.Format(dates.TimeLayout),
		RejectionReason: reason,
	}

	resolved := *app
	resolved.Status = status
	outcome := &domain.Outcome{Application: resolved, Resolution: resolution}

	if err := s.apps.CreateOutcome(ctx, outcome); err != nil {
		if errors.Is(err, docstore.ErrPathExists) {
			// A concurrent resolution won after our guard check. For an
			// approval the ledger has already moved; reconcile from audit.
			log.Printf("🛑 Outcome already present for %s %s/%s after mutation; reconcile from audit logs",
				app.Domain, app.MemberID, app.TransactionID)
			return nil, &domain.AlreadyResolvedError{
				Domain: app.Domain, MemberID: app.MemberID,
				TransactionID: app.TransactionID, Status: status,
			}
		}
		return nil, &domain.StoreError{Op: "create", Path: "outcome", Err: err}
	}

	// Feed and pending-record bookkeeping are display-side; the outcome is
	// already durable, so their failures are logged, not surfaced.
	feed := &domain.FeedEntry{
		MemberID:      app.MemberID,
		TransactionID: app.TransactionID,
		Domain:        app.Domain,
		Amount:        app.Amount,
		Channel:       app.Channel,
		Status:        status,
		Date:          resolution.Date,
		Time:          resolution.Time,
		ResolvedAt:    now,
	}
	if err := s.apps.AppendFeed(ctx, feed); err != nil {
		log.Printf("⚠️ Failed to append feed entry %s/%s: %v", app.MemberID, app.TransactionID, err)
	}
	if err := s.apps.MarkResolved(ctx, app.Domain, app.MemberID, app.TransactionID, status, resolution); err != nil {
		log.Printf("⚠️ Failed to mark application %s/%s resolved: %v", app.MemberID, app.TransactionID, err)
	}

	return outcome, nil
}
