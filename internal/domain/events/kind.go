package events

import "fmt"

// Severity ranks how urgently an event should be surfaced
type Severity string

const (
	SeverityInfo   Severity = "INFO"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return sev, nil
}

// Kind enumerates the business events the world publishes
type Kind string

const (
	KindLowCashFlow          Kind = "LOW_CASH_FLOW"
	KindInsufficientFunds    Kind = "INSUFFICIENT_FUNDS"
	KindProductionStarted    Kind = "PRODUCTION_STARTED"
	KindProductionCompleted  Kind = "PRODUCTION_COMPLETED"
	KindMaterialShortage     Kind = "MATERIAL_SHORTAGE"
	KindWorkOrderCreated     Kind = "WORK_ORDER_CREATED"
	KindWorkOrderCancelled   Kind = "WORK_ORDER_CANCELLED"
	KindNewSalesOrder        Kind = "NEW_SALES_ORDER"
	KindOrderShipped         Kind = "ORDER_SHIPPED"
	KindOrderDelivered       Kind = "ORDER_DELIVERED"
	KindOrderCancelled       Kind = "ORDER_CANCELLED"
	KindMachineBreakdown     Kind = "MACHINE_BREAKDOWN"
	KindMajorOrder           Kind = "MAJOR_ORDER"
	KindSupplierDelay        Kind = "SUPPLIER_DELAY"
	KindQualityIssue         Kind = "QUALITY_ISSUE"
	KindMarketOpportunity    Kind = "MARKET_OPPORTUNITY"
	KindMarketChange         Kind = "MARKET_CHANGE"
	KindFinancialReport      Kind = "FINANCIAL_REPORT"
	KindBudgetReview         Kind = "BUDGET_REVIEW"
	KindPayrollProcessed     Kind = "PAYROLL_PROCESSED"
	KindEmployeeHired        Kind = "EMPLOYEE_HIRED"
	KindSalaryIncrease       Kind = "SALARY_INCREASE"
	KindReorderPlaced        Kind = "REORDER_PLACED"
)

// Descriptor is the display and ranking metadata attached to a kind
type Descriptor struct {
	Title    string
	Severity Severity
	Color    string
}

var descriptors = map[Kind]Descriptor{
	KindLowCashFlow:         {Title: "Low Cash Flow", Severity: SeverityMedium, Color: "#E67E22"},
	KindInsufficientFunds:   {Title: "Insufficient Funds", Severity: SeverityHigh, Color: "#C0392B"},
	KindProductionStarted:   {Title: "Production Started", Severity: SeverityInfo, Color: "#2980B9"},
	KindProductionCompleted: {Title: "Production Completed", Severity: SeverityInfo, Color: "#27AE60"},
	KindMaterialShortage:    {Title: "Material Shortage", Severity: SeverityMedium, Color: "#E67E22"},
	KindWorkOrderCreated:    {Title: "Work Order Created", Severity: SeverityInfo, Color: "#2980B9"},
	KindWorkOrderCancelled:  {Title: "Work Order Cancelled", Severity: SeverityInfo, Color: "#7F8C8D"},
	KindNewSalesOrder:       {Title: "New Sales Order", Severity: SeverityInfo, Color: "#16A085"},
	KindOrderShipped:        {Title: "Order Shipped", Severity: SeverityInfo, Color: "#27AE60"},
	KindOrderDelivered:      {Title: "Order Delivered", Severity: SeverityInfo, Color: "#27AE60"},
	KindOrderCancelled:      {Title: "Order Cancelled", Severity: SeverityInfo, Color: "#7F8C8D"},
	KindMachineBreakdown:    {Title: "Machine Breakdown", Severity: SeverityMedium, Color: "#D35400"},
	KindMajorOrder:          {Title: "Major Order", Severity: SeverityInfo, Color: "#8E44AD"},
	KindSupplierDelay:       {Title: "Supplier Delay", Severity: SeverityMedium, Color: "#D35400"},
	KindQualityIssue:        {Title: "Quality Issue", Severity: SeverityHigh, Color: "#C0392B"},
	KindMarketOpportunity:   {Title: "Market Opportunity", Severity: SeverityInfo, Color: "#8E44AD"},
	KindMarketChange:        {Title: "Market Change", Severity: SeverityInfo, Color: "#2C3E50"},
	KindFinancialReport:     {Title: "Financial Report", Severity: SeverityInfo, Color: "#2C3E50"},
	KindBudgetReview:        {Title: "Budget Review", Severity: SeverityInfo, Color: "#2C3E50"},
	KindPayrollProcessed:    {Title: "Payroll Processed", Severity: SeverityInfo, Color: "#2980B9"},
	KindEmployeeHired:       {Title: "Employee Hired", Severity: SeverityInfo, Color: "#16A085"},
	KindSalaryIncrease:      {Title: "Salary Increase", Severity: SeverityInfo, Color: "#16A085"},
	KindReorderPlaced:       {Title: "Reorder Placed", Severity: SeverityInfo, Color: "#2980B9"},
}

// AllKinds returns every kind with a registered descriptor, in declaration order
func AllKinds() []Kind {
	return []Kind{
		KindLowCashFlow, KindInsufficientFunds, KindProductionStarted, KindProductionCompleted,
		KindMaterialShortage, KindWorkOrderCreated, KindWorkOrderCancelled, KindNewSalesOrder,
		KindOrderShipped, KindOrderDelivered, KindOrderCancelled, KindMachineBreakdown,
		KindMajorOrder, KindSupplierDelay, KindQualityIssue, KindMarketOpportunity,
		KindMarketChange, KindFinancialReport, KindBudgetReview, KindPayrollProcessed,
		KindEmployeeHired, KindSalaryIncrease, KindReorderPlaced,
	}
}

// IsValid checks if the kind has a descriptor
func (k Kind) IsValid() bool {
	_, ok := descriptors[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// Descriptor returns the kind's metadata. Unknown kinds get a neutral descriptor.
func (k Kind) Descriptor() Descriptor {
	if d, ok := descriptors[k]; ok {
		return d
	}
	return Descriptor{Title: string(k), Severity: SeverityInfo, Color: "#95A5A6"}
}

// ParseKind parses a string into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid event kind: %s", s)
	}
	return k, nil
}
