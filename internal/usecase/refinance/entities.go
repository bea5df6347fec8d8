package refinance

type RefinanceInput struct {
	LoanID   string
	CallerID string
	NewTerm  int
	Reason   string
}

type QuoteOption struct {
	TermMonths     int     `json:"term_months"`
	Fee            float64 `json:"fee"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

type QuoteDTO struct {
	LoanID           string        `json:"loan_id"`
	RemainingBalance float64       `json:"remaining_balance"`
	CurrentTerm      int           `json:"current_term"`
	CurrentPayment   float64       `json:"current_payment"`
	Fee              float64       `json:"fee"`
	Options          []QuoteOption `json:"options"`
}

type RefinanceDTO struct {
	RefinanceID     string  `json:"refinance_id"`
	LoanID          string  `json:"loan_id"`
	PreviousPayment float64 `json:"previous_payment"`
	NewPayment      float64 `json:"new_payment"`
	PreviousTerm    int     `json:"previous_term"`
	NewTerm         int     `json:"new_term"`
	Fee             float64 `json:"fee"`
	LoanStatus      string  `json:"loan_status"`
}
