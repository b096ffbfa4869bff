package repositories

import (
	"fmt"

	"smpc-coopfund/internal/core/domain"
)

// Store path layout. Each request domain keeps three sibling collections
// (pending, approved, rejected) nested per member, mirroring the paths the
// rest of the organization's tooling reads.
//
//	Deposits/PendingDeposits/{memberId}/{txnId}
//	Deposits/ApprovedDeposits/{memberId}/{txnId}
//	Deposits/RejectedDeposits/{memberId}/{txnId}
//	Transactions/{memberId}/{domain}-{txnId}
//	Balances/{memberId}
//	Members/{memberId}
//	Loans/{memberId}/{loanId}
//	Funds/Pool
//	Funds/History/{snapshotId}

var collectionNames = map[domain.Domain]string{
	domain.DomainDeposit:         "Deposits",
	domain.DomainWithdrawal:      "Withdrawals",
	domain.DomainLoanPayment:     "LoanPayments",
	domain.DomainLoanApplication: "LoanApplications",
}

func pendingRoot(d domain.Domain) string {
	name := collectionNames[d]
	return fmt.Sprintf("%s/Pending%s", name, name)
}

func outcomeRoot(d domain.Domain, status domain.Status) string {
	name := collectionNames[d]
	if status == domain.StatusApproved {
		return fmt.Sprintf("%s/Approved%s", name, name)
	}
	return fmt.Sprintf("%s/Rejected%s", name, name)
}

func pendingPath(d domain.Domain, memberID, txnID string) string {
	return fmt.Sprintf("%s/%s/%s", pendingRoot(d), memberID, txnID)
}

func outcomePath(d domain.Domain, status domain.Status, memberID, txnID string) string {
	return fmt.Sprintf("%s/%s/%s", outcomeRoot(d, status), memberID, txnID)
}

// feedPath keys feed entries by domain and transaction id. Transaction ids
// are unique only within a member's domain collection, so the domain tag
// keeps a cross-domain id collision from overwriting an earlier entry.
func feedPath(d domain.Domain, memberID, txnID string) string {
	return fmt.Sprintf("Transactions/%s/%s-%s", memberID, d, txnID)
}

func feedRoot(memberID string) string {
	return fmt.Sprintf("Transactions/%s", memberID)
}

func memberPath(memberID string) string {
	return fmt.Sprintf("Members/%s", memberID)
}

func balancePath(memberID string) string {
	return fmt.Sprintf("Balances/%s", memberID)
}

func loanPath(memberID, loanID string) string {
	return fmt.Sprintf("Loans/%s/%s", memberID, loanID)
}

func loanRoot(memberID string) string {
	return fmt.Sprintf("Loans/%s", memberID)
}

const (
	fundsPoolPath    = "Funds/Pool"
	fundsHistoryRoot = "Funds/History"
	membersRoot      = "Members"
	loansRoot        = "Loans"
)
