package repository

const SelectBalanceSQL = `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`

const SelectCreditsSumSQL = `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1 AND amount > 0`

const SelectDebitsSumSQL = `SELECT COALESCE(-SUM(amount), 0) FROM transactions WHERE user_id = $1 AND amount < 0`

const SelectLedgerSummarySQL = `
SELECT
    COALESCE(SUM(amount), 0),
    COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
    COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0)
FROM
    transactions
WHERE
    user_id = $1`

const productColumns = `id, name, description, cost, count, division, buyer_roles, manager_role, active`

const SelectProductsSQL = `SELECT ` + productColumns + ` FROM products WHERE ($1::boolean = FALSE OR active) ORDER BY id`

const SelectProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

const purchaseColumns = `p.id, p.user_id, p.product_id, p.status, p.bought_at, p.updated_at,
    p.updated_by_user_id, p.usage_count, p.user_comment, p.manager_comment`

const SelectPurchaseSQL = `SELECT ` + purchaseColumns + ` FROM purchases p WHERE p.id = $1`

const SelectPurchasesBaseSQL = `SELECT ` + purchaseColumns + `
FROM purchases p
JOIN products pr ON pr.id = p.product_id
LEFT JOIN employees e ON e.user_id = p.user_id
WHERE TRUE`

const LockUserLedgerSQL = `SELECT pg_advisory_xact_lock($1)`

const InsertPurchaseSQL = `
INSERT INTO purchases (user_id, product_id, status, bought_at, user_comment)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

const InsertTransactionSQL = `
INSERT INTO transactions (user_id, amount, category, purchase_id, achievement_id, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const DecidePurchaseSQL = `
UPDATE purchases p
SET status = $2, updated_at = $3, updated_by_user_id = $4, manager_comment = $5
WHERE p.id = $1 AND p.status = $6 AND p.updated_by_user_id IS NULL
RETURNING ` + purchaseColumns

const IncrementUsageSQL = `
UPDATE purchases p
SET usage_count = p.usage_count + 1
WHERE p.id = $1 AND p.status = $2 AND p.usage_count < $3
RETURNING ` + purchaseColumns

const SetUserCommentSQL = `
UPDATE purchases p
SET user_comment = $2
WHERE p.id = $1 AND ($3::text = '' OR p.status = $3)
RETURNING ` + purchaseColumns

const employeeColumns = `id, COALESCE(user_id, 0), fullname, COALESCE(username, ''), position, division, head,
    role, is_casino_allowed`

const SelectEmployeeByUserIDSQL = `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1`

const SelectEmployeeByFullNameSQL = `SELECT ` + employeeColumns + ` FROM employees WHERE fullname = $1 ORDER BY id LIMIT 1`

const SelectAchievementsSQL = `
SELECT id, name, description, reward, position, division, period
FROM achievements
WHERE ($1::text = '' OR division = $1)
ORDER BY id`
