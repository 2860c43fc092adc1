package wallet

const (
	queryGetBalance = `
		SELECT user_id, diamonds, earnings
		FROM wallet_balances
		WHERE user_id = $1
	`

	queryGetBalanceForUpdate = `
		SELECT user_id, diamonds, earnings
		FROM wallet_balances
		WHERE user_id = $1
		FOR UPDATE
	`

	queryUpsertBalance = `
		INSERT INTO wallet_balances (user_id, diamonds, earnings)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET
			diamonds = wallet_balances.diamonds + EXCLUDED.diamonds,
			earnings = wallet_balances.earnings + EXCLUDED.earnings
		RETURNING user_id, diamonds, earnings
	`

	queryDeductEarnings = `
		UPDATE wallet_balances
		SET earnings = earnings - $2
		WHERE user_id = $1
		RETURNING user_id, diamonds, earnings
	`

	queryInsertTransaction = `
		INSERT INTO wallet_transactions (user_id, kind, amount, reference, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, kind, amount, reference, status, created_at
	`

	queryUpdateTransactionStatus = `
		UPDATE wallet_transactions
		SET status = $3
		WHERE reference = $1 AND user_id = $2
	`

	queryListTransactions = `
		SELECT id, user_id, kind, amount, reference, status, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
)
