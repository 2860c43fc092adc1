package wallet

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/weconnect/server/internal/auth"
	"codeberg.org/weconnect/server/internal/errors"
	"codeberg.org/weconnect/server/internal/notifications"
	"codeberg.org/weconnect/server/weconnect/wallet"
)

// GetBalanceHandler returns the authenticated user's wallet balance
func GetBalanceHandler(walletService *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		balance, err := walletService.Balance(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to load balance", err)
			return
		}

		c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
	}
}

// WithdrawHandler pays out earnings through the payment gateway
func WithdrawHandler(walletService *wallet.Service, notifier *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req wallet.WithdrawRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.BadRequest(c, "invalid withdrawal", err)
			return
		}

		transaction, err := walletService.Withdraw(c.Request.Context(), userID, &req)
		if stderrors.Is(err, wallet.ErrInsufficientFunds) {
			errors.BadRequest(c, "insufficient funds", nil)
			return
		}

		if stderrors.Is(err, wallet.ErrWithdrawalsDisabled) {
			errors.Conflict(c, "withdrawals are not enabled")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to process withdrawal", err)
			return
		}

		notifier.Notify(c.Request.Context(), userID, notifications.TypeWithdrawal,
			"Withdrawal processed",
			"Your withdrawal of $"+strconv.FormatFloat(req.Amount, 'f', 2, 64)+" is on its way.")

		c.JSON(http.StatusOK, TransactionResponse{Transaction: transaction})
	}
}

// ListTransactionsHandler lists the authenticated user's wallet history
func ListTransactionsHandler(walletService *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		limit := 50
		if l, ok := c.GetQuery("limit"); ok {
			if parsed, err := strconv.Atoi(l); err == nil {
				limit = parsed
			}
		}

		transactions, err := walletService.Transactions(c.Request.Context(), userID, limit)
		if err != nil {
			errors.InternalError(c, "failed to list transactions", err)
			return
		}

		c.JSON(http.StatusOK, TransactionListResponse{Transactions: transactions})
	}
}
