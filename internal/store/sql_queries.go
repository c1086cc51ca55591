package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	upsertUser = `INSERT INTO users (user_id, chat_id, username)
    VALUES ($1, $2, $3)
    ON CONFLICT (user_id) DO UPDATE
      SET chat_id = EXCLUDED.chat_id,
          username = EXCLUDED.username;`

	insertCategory = `INSERT INTO categories (user_id, name)
    VALUES ($1, $2)
    ON CONFLICT (user_id, name) DO NOTHING;`

	findCategoryID = `SELECT id FROM categories
    WHERE user_id = $1 AND name = $2;`

	insertSubcategory = `INSERT INTO subcategories (user_id, category_id, name)
    VALUES ($1, $2, $3)
    ON CONFLICT (user_id, category_id, name) DO NOTHING;`

	insertPurchase = `INSERT INTO purchases (user_id, category, subcategory, price, ts)
    VALUES ($1, $2, $3, $4, $5);`

	insertIncome = `INSERT INTO income (user_id, source, amount, ts)
    VALUES ($1, $2, $3, $4);`

	// Ties on ts are broken by id (insertion sequence): a batch write stamps
	// every item with the same timestamp on purpose.
	findLastPurchase = `SELECT id, category, subcategory
    FROM purchases
    WHERE user_id = $1
    ORDER BY ts DESC, id DESC
    LIMIT 1;`

	updatePurchaseCategory = `UPDATE purchases
    SET category = $1, ts = $2
    WHERE id = $3;`

	updatePurchaseSubcategory = `UPDATE purchases
    SET subcategory = $1, ts = $2
    WHERE id = $3;`

	updatePurchasePrice = `UPDATE purchases
    SET price = $1, ts = $2
    WHERE id = $3;`

	// Single-statement delete of the most recent purchase, replacing the
	// original's server-side procedure: no read-then-delete race window.
	deleteLastPurchase = `DELETE FROM purchases
    WHERE id = (
        SELECT id FROM purchases
        WHERE user_id = $1
        ORDER BY ts DESC, id DESC
        LIMIT 1
    )
    RETURNING id;`

	findCategoryByName = `SELECT id FROM categories
    WHERE user_id = $1 AND name = $2
    LIMIT 1;`

	renameCategory = `UPDATE categories
    SET name = $1
    WHERE user_id = $2 AND name = $3;`

	deleteCategoryByName = `DELETE FROM categories
    WHERE user_id = $1 AND name = $2;`

	// Collapses duplicate dictionary rows left by a rename collision,
	// keeping the lowest-id row as canonical.
	collapseCategoryDuplicates = `DELETE FROM categories
    WHERE user_id = $1 AND name = $2
      AND id <> (SELECT MIN(id) FROM categories WHERE user_id = $1 AND name = $2);`

	findSubcategoryByName = `SELECT id FROM subcategories
    WHERE user_id = $1 AND category_id = $2 AND name = $3
    LIMIT 1;`

	renameSubcategory = `UPDATE subcategories
    SET name = $1
    WHERE user_id = $2 AND category_id = $3 AND name = $4;`

	deleteSubcategoryByName = `DELETE FROM subcategories
    WHERE user_id = $1 AND category_id = $2 AND name = $3;`

	collapseSubcategoryDuplicates = `DELETE FROM subcategories
    WHERE user_id = $1 AND category_id = $2 AND name = $3
      AND id <> (SELECT MIN(id) FROM subcategories WHERE user_id = $1 AND category_id = $2 AND name = $3);`
)

// psql builds SELECT queries with PostgreSQL-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildPurchasesTodayQuery(userKey int64, dayStart time.Time) (string, []any, error) {
	return psql.
		Select("id", "user_id", "category", "subcategory", "price", "ts").
		From("purchases").
		Where(sq.Eq{"user_id": userKey}).
		Where(sq.GtOrEq{"ts": dayStart}).
		Where(sq.Lt{"ts": dayStart.AddDate(0, 0, 1)}).
		OrderBy("ts", "id").
		ToSql()
}

func buildAllPurchasesQuery(userKey int64) (string, []any, error) {
	return psql.
		Select("id", "user_id", "category", "subcategory", "price", "ts").
		From("purchases").
		Where(sq.Eq{"user_id": userKey}).
		OrderBy("ts", "id").
		ToSql()
}

func buildLastPurchaseQuery(userKey int64) (string, []any, error) {
	return psql.
		Select("id", "user_id", "category", "subcategory", "price", "ts").
		From("purchases").
		Where(sq.Eq{"user_id": userKey}).
		OrderBy("ts DESC", "id DESC").
		Limit(1).
		ToSql()
}

func buildCategoriesQuery(userKey int64) (string, []any, error) {
	return psql.
		Select("id", "user_id", "name").
		From("categories").
		Where(sq.Eq{"user_id": userKey}).
		OrderBy("id").
		ToSql()
}

func buildRecentIncomeQuery(userKey int64, since time.Time) (string, []any, error) {
	return psql.
		Select("id", "user_id", "source", "amount", "ts").
		From("income").
		Where(sq.Eq{"user_id": userKey}).
		Where(sq.GtOrEq{"ts": since}).
		OrderBy("ts", "id").
		ToSql()
}
