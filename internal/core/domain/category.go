package domain

// CategoryKind restricts a category to tagging either income or expense
// transactions. Categories never affect balances.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "INCOME"
	CategoryExpense CategoryKind = "EXPENSE"
)

// Category is a household-scoped tag for income/expense transactions.
type Category struct {
	CategoryID  string       `json:"categoryID"` // Primary Key (UUID)
	HouseholdID string       `json:"householdID"`
	Name        string       `json:"name"`
	Kind        CategoryKind `json:"kind"`
	AuditFields
}
