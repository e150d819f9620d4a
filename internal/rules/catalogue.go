package rules

// Rule identifiers.
const (
	RuleLargeTransaction    = "large_transaction"
	RuleManualEntry         = "manual_entry"
	RuleSuspenseAccount     = "suspense_account"
	RuleWeekendHoliday      = "weekend_holiday"
	RuleOffsettingGroup     = "offsetting_group"
	RuleDuplicateComposite  = "duplicate_composite"
	RuleDuplicateTxnID      = "duplicate_txn_id"
	RuleMissingDescription  = "missing_description"
	RuleRoundedNumber       = "rounded_number"
	RuleBenford             = "benford"
	RuleSameCreatorApprover = "same_creator_approver"
	RuleBackdatedPosting    = "backdated_posting"
	RuleNearThreshold       = "near_threshold"
	RuleUnauthorizedUser    = "unauthorized_user"
	RulePostClosing         = "post_closing"
	RulePattern99999        = "pattern_99999"
	RuleSuspiciousKeyword   = "suspicious_keyword"
	RuleSeldomUsedAccount   = "seldom_used_account"
)

// Catalogue returns the full rule set in its declared order. The order is
// load-bearing: the aggregator attributes categories in this order so that
// bundles are reproducible even when evaluation runs in parallel.
func Catalogue() []Rule {
	return []Rule{
		{ID: RuleLargeTransaction, Label: "Large transactions", Category: "Large Transaction", Check: checkLargeTransaction},
		{ID: RuleManualEntry, Label: "Manual journal entries", Category: "Manual Entry", Check: checkManualEntry},
		{ID: RuleSuspenseAccount, Label: "Suspense account activity", Category: "Suspense Account", Check: checkSuspenseAccount},
		{ID: RuleWeekendHoliday, Label: "Weekend or holiday postings", Category: "Weekend/Holiday Entry", Check: checkWeekendHoliday},
		{ID: RuleOffsettingGroup, Label: "Offsetting entries by user and period", Category: "Offsetting Entries", Check: checkOffsettingGroup},
		{ID: RuleDuplicateComposite, Label: "Duplicate entries (date/amount/account)", Category: "Duplicate Entry", Check: checkDuplicateComposite},
		{ID: RuleDuplicateTxnID, Label: "Duplicate transaction ids", Category: "Duplicate Transaction ID", Check: checkDuplicateTxnID},
		{ID: RuleMissingDescription, Label: "Entries without a description", Category: "Missing Description", Check: checkMissingDescription},
		{ID: RuleRoundedNumber, Label: "Suspiciously round amounts", Category: "Rounded Number", Check: checkRoundedNumber},
		{ID: RuleBenford, Label: "Benford's Law first-digit anomaly", Category: "Benford Anomaly", Check: checkBenford, DatasetLevel: true},
		{ID: RuleSameCreatorApprover, Label: "Creator approved own entry", Category: "Same Creator and Approver", Check: checkSameCreatorApprover},
		{ID: RuleBackdatedPosting, Label: "Backdated postings", Category: "Backdated Entry", Check: checkBackdatedPosting},
		{ID: RuleNearThreshold, Label: "Amounts just under approval threshold", Category: "Near Approval Threshold", Check: checkNearThreshold},
		{ID: RuleUnauthorizedUser, Label: "Entries by unauthorized users", Category: "Unauthorized User", Check: checkUnauthorizedUser},
		{ID: RulePostClosing, Label: "Entries dated after closing", Category: "Post-Closing Entry", Check: checkPostClosing},
		{ID: RulePattern99999, Label: "Amounts ending just below a whole unit", Category: "99999 Pattern", Check: checkPattern99999},
		{ID: RuleSuspiciousKeyword, Label: "Suspicious keywords in description", Category: "Suspicious Keyword", Check: checkSuspiciousKeyword},
		{ID: RuleSeldomUsedAccount, Label: "Seldom-used accounts", Category: "Seldom-Used Account", Check: checkSeldomUsedAccount},
	}
}
