package balance

type BalanceResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	PtoTypeID string `json:"pto_type_id"`
	Year      int    `json:"year"`
	Balance   string `json:"balance"`
	Pending   string `json:"pending_balance"`
	Used      string `json:"used_balance"`
	Available string `json:"available_balance"`
}

type TransactionResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Amount    string  `json:"amount"`
	Reason    string  `json:"reason"`
	RequestID *string `json:"request_id,omitempty"`
	ActorID   string  `json:"actor_id"`
	CreatedAt string  `json:"created_at"`
}

type AdjustBalanceRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	PtoTypeID string `json:"pto_type_id" binding:"required,uuid"`
	Year      int    `json:"year" binding:"required,min=2000,max=2200"`
	// Delta is a signed decimal string in half-day steps, e.g. "-1.5".
	Delta  string `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}
