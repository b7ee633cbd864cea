package dto

// ReconciliationResult tallies one bulk upload: how many patches the store
// applied and which codes failed. Unmatched codes come first, in upload row
// order, followed by codes the store rejected.
type ReconciliationResult struct {
	SuccessCount int      `json:"successCount"`
	FailedCodes  []string `json:"failedCodes"`
}
