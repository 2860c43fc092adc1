package wallet

import "codeberg.org/weconnect/server/weconnect/wallet"

type BalanceResponse struct {
	Balance *wallet.Balance `json:"balance"`
}

type TransactionResponse struct {
	Transaction *wallet.Transaction `json:"transaction"`
}

type TransactionListResponse struct {
	Transactions []wallet.Transaction `json:"transactions"`
}
