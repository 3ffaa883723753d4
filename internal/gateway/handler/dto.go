package handler

// CreateBudgetRequest carries the ten code segments and the allocation for a
// new budget. Amounts travel as decimal strings to avoid float rounding on
// the wire.
type CreateBudgetRequest struct {
	Direction      string `json:"direction"`
	Program        string `json:"program"`
	Project        string `json:"project"`
	Agreement      string `json:"agreement"`
	OrgUnit        string `json:"org_unit"`
	Action         string `json:"action"`
	Account        string `json:"account"`
	Free1          string `json:"free_1"`
	Free2          string `json:"free_2"`
	Free3          string `json:"free_3"`
	Total          string `json:"total" binding:"required"`
	Description    string `json:"description"`
	DirectionLabel string `json:"direction_label"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	AnalyticCode   string            `json:"analytic_code"`
	Total          string            `json:"total"`
	Committed      string            `json:"committed"`
	Available      string            `json:"available"`
	Description    string            `json:"description,omitempty"`
	DirectionLabel string            `json:"direction_label,omitempty"`
	Warnings       []WarningResponse `json:"warnings,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

// WarningResponse surfaces a non-fatal catalog provisioning problem
type WarningResponse struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// PreviewLinesRequest asks for the order line projection of one or more requisitions
type PreviewLinesRequest struct {
	RequisitionIDs []string `json:"requisition_ids" binding:"required,min=1"`
}

// LineRequest represents a single prospective order line in validation requests
type LineRequest struct {
	AnalyticCode  string `json:"analytic_code"`
	Description   string `json:"description"`
	Quantity      string `json:"quantity" binding:"required"`
	UnitRate      string `json:"unit_rate" binding:"required"`
	UnitOfMeasure string `json:"unit_of_measure"`
	ScheduleDate  string `json:"schedule_date"`
}

// LineResponse represents a projected order line in API responses
type LineResponse struct {
	ItemCode      string `json:"item_code,omitempty"`
	AnalyticCode  string `json:"analytic_code"`
	Description   string `json:"description,omitempty"`
	Quantity      string `json:"quantity"`
	UnitRate      string `json:"unit_rate"`
	Amount        string `json:"amount"`
	UnitOfMeasure string `json:"unit_of_measure"`
	ScheduleDate  string `json:"schedule_date,omitempty"`
}

// ValidateCommitmentRequest checks prospective lines against available budget
type ValidateCommitmentRequest struct {
	OrderID string        `json:"order_id"`
	Lines   []LineRequest `json:"lines" binding:"required,min=1"`
}

// ViolationResponse reports one analytic code whose budget would be exceeded
type ViolationResponse struct {
	AnalyticCode string `json:"analytic_code"`
	Required     string `json:"required"`
	Available    string `json:"available"`
}

// CommitmentEntryResponse represents a commitment ledger entry in API responses
type CommitmentEntryResponse struct {
	ID             string `json:"id"`
	AnalyticCode   string `json:"analytic_code"`
	OrderID        string `json:"order_id"`
	Kind           string `json:"kind"`
	Amount         string `json:"amount"`
	CommittedAfter string `json:"committed_after"`
	AvailableAfter string `json:"available_after"`
	CorrelationID  string `json:"correlation_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// EnsureEntryRequest provisions a catalog entry for an analytic code
type EnsureEntryRequest struct {
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

// CatalogEntryResponse represents a catalog entry in API responses
type CatalogEntryResponse struct {
	Code           string            `json:"code"`
	DisplayName    string            `json:"display_name"`
	UnitOfMeasure  string            `json:"unit_of_measure"`
	Category       string            `json:"category"`
	Purchasable    bool              `json:"purchasable"`
	Stockable      bool              `json:"stockable"`
	ExpenseAccount string            `json:"expense_account,omitempty"`
	DirectionLabel string            `json:"direction_label,omitempty"`
	Warnings       []WarningResponse `json:"warnings,omitempty"`
}

// BackfillDirectionLabelRequest sets the direction label on a catalog entry
type BackfillDirectionLabelRequest struct {
	DirectionLabel string `json:"direction_label" binding:"required"`
}

// RepairLinesResponse lists the order lines rewritten during repair
type RepairLinesResponse struct {
	Repaired []LineResponse    `json:"repaired"`
	Warnings []WarningResponse `json:"warnings,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
