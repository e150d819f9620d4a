// Package model defines the core data structures for the sift application.
package model

import (
	"time"
)

// Field is a canonical column name in the normalized ledger schema. Input
// files carry arbitrary headers; the schema normalizer translates them to
// these names exactly once, and everything downstream speaks Field.
type Field string

// Canonical field catalogue.
const (
	FieldTransactionID Field = "Transaction ID"
	FieldDate          Field = "Date"
	FieldPostingDate   Field = "Posting Date"
	FieldDebit         Field = "Debit Amount"
	FieldCredit        Field = "Credit Amount"

	FieldAccountID       Field = "Account ID"
	FieldAccountNumber   Field = "Account Number"
	FieldAccountName     Field = "Account Name"
	FieldAccountType     Field = "Account Type"
	FieldCostCenter      Field = "Cost Center"
	FieldCurrency        Field = "Currency"
	FieldExchangeRate    Field = "Exchange Rate"
	FieldCreatedBy       Field = "Created By"
	FieldApprovedBy      Field = "Approved By"
	FieldDescription     Field = "Entry Description"
	FieldReference       Field = "Reference Number"
	FieldDocumentNumber  Field = "Document Number"
	FieldJournalType     Field = "Journal Type"
	FieldSourceSystem    Field = "Source System"
	FieldPeriod          Field = "Period"
	FieldFiscalYear      Field = "Fiscal Year"
	FieldBatchID         Field = "Batch ID"
	FieldVendorID        Field = "Vendor ID"
	FieldCustomerID      Field = "Customer ID"
	FieldTaxCode         Field = "Tax Code"
	FieldLocation        Field = "Location"
	FieldDepartment      Field = "Department"
	FieldProjectCode     Field = "Project Code"
	FieldManualFlag      Field = "Manual Entry Flag"
	FieldSuspenseFlag    Field = "Suspense Account Flag"
	FieldReversalFlag    Field = "Reversal Flag"
	FieldIntercompany    Field = "Intercompany Flag"
	FieldApprovalStatus  Field = "Approval Status"
)

// RequiredFields must be present in every mapping; normalization fails
// without them.
var RequiredFields = []Field{FieldTransactionID, FieldDate, FieldDebit, FieldCredit}

// OptionalFields is the catalogue of recognized optional mappings. A field
// left unmapped simply disables the rules that depend on it.
var OptionalFields = []Field{
	FieldPostingDate,
	FieldAccountID,
	FieldAccountNumber,
	FieldAccountName,
	FieldAccountType,
	FieldCostCenter,
	FieldCurrency,
	FieldExchangeRate,
	FieldCreatedBy,
	FieldApprovedBy,
	FieldDescription,
	FieldReference,
	FieldDocumentNumber,
	FieldJournalType,
	FieldSourceSystem,
	FieldPeriod,
	FieldFiscalYear,
	FieldBatchID,
	FieldVendorID,
	FieldCustomerID,
	FieldTaxCode,
	FieldLocation,
	FieldDepartment,
	FieldProjectCode,
	FieldManualFlag,
	FieldSuspenseFlag,
	FieldReversalFlag,
	FieldIntercompany,
	FieldApprovalStatus,
}

// LedgerRecord represents a single normalized journal entry line.
//
// Debit and Credit are nil when the source value was absent or unparseable;
// Date and PostingDate likewise. String fields are empty when unmapped or
// blank — whether a field was mapped at all is tracked on the Dataset, not
// per record.
type LedgerRecord struct {
	Date          *time.Time
	PostingDate   *time.Time
	Debit         *float64
	Credit        *float64
	TransactionID string
	AccountID     string
	AccountNumber string
	CreatedBy     string
	ApprovedBy    string
	Description   string
	Period        string

	// Row is the record's position in the normalized dataset. It is the
	// stable identity used for flagging: transaction ids may legitimately
	// repeat (and one rule exists to catch exactly that).
	Row int

	ManualEntry     bool
	SuspenseAccount bool
	Reversal        bool
}

// Amount returns the record's movement magnitude: the debit if present,
// otherwise the credit, otherwise nil.
func (r *LedgerRecord) Amount() *float64 {
	if r.Debit != nil {
		return r.Debit
	}
	return r.Credit
}

// Dataset is a normalized ledger plus the set of canonical fields the
// mapping actually bound. Rules consult Has before reading optional fields
// so that an unmapped column skips the rule instead of matching vacuously.
type Dataset struct {
	Mapped  map[Field]bool
	Records []LedgerRecord
}

// Has reports whether the canonical field was bound by the mapping.
func (d *Dataset) Has(f Field) bool {
	return d.Mapped[f]
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}
