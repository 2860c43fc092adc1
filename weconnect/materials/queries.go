package materials

// legacy rows imported from the old client may carry NULL text or counter
// columns, so every SELECT normalises them at the boundary
const (
	queryCreate = `
		INSERT INTO materials (
			id, owner_id, title, category, school, course, file_name, file_size, storage_key
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, owner_id, title, category, school, course, file_name, file_size, storage_key,
		          views, downloads, diamonds, earnings, created_at
	`

	queryFetchAll = `
		SELECT id, owner_id, COALESCE(title, 'Untitled'), COALESCE(category, ''),
		       COALESCE(school, ''), COALESCE(course, ''), COALESCE(file_name, ''),
		       COALESCE(file_size, 0), COALESCE(storage_key, ''),
		       COALESCE(views, 0), COALESCE(downloads, 0), COALESCE(diamonds, 0),
		       COALESCE(earnings, 0), created_at
		FROM materials
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	queryGet = `
		SELECT id, owner_id, COALESCE(title, 'Untitled'), COALESCE(category, ''),
		       COALESCE(school, ''), COALESCE(course, ''), COALESCE(file_name, ''),
		       COALESCE(file_size, 0), COALESCE(storage_key, ''),
		       COALESCE(views, 0), COALESCE(downloads, 0), COALESCE(diamonds, 0),
		       COALESCE(earnings, 0), created_at
		FROM materials
		WHERE id = $1
	`

	querySearch = `
		SELECT id, owner_id, COALESCE(title, 'Untitled'), COALESCE(category, ''),
		       COALESCE(school, ''), COALESCE(course, ''), COALESCE(file_name, ''),
		       COALESCE(file_size, 0), COALESCE(storage_key, ''),
		       COALESCE(views, 0), COALESCE(downloads, 0), COALESCE(diamonds, 0),
		       COALESCE(earnings, 0), created_at
		FROM materials
		WHERE owner_id = $1
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR course ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR category = $3)
		ORDER BY created_at DESC
	`

	queryDelete = `
		DELETE FROM materials
		WHERE id = $1 AND owner_id = $2
	`

	queryAddCounters = `
		UPDATE materials
		SET views = COALESCE(views, 0) + $2,
		    downloads = COALESCE(downloads, 0) + $3
		WHERE id = $1
		RETURNING id, owner_id, COALESCE(title, 'Untitled'), COALESCE(category, ''),
		          COALESCE(school, ''), COALESCE(course, ''), COALESCE(file_name, ''),
		          COALESCE(file_size, 0), COALESCE(storage_key, ''),
		          COALESCE(views, 0), COALESCE(downloads, 0), COALESCE(diamonds, 0),
		          COALESCE(earnings, 0), created_at
	`

	queryAddReward = `
		UPDATE materials
		SET diamonds = COALESCE(diamonds, 0) + $2,
		    earnings = COALESCE(earnings, 0) + $3
		WHERE id = $1
		RETURNING id, owner_id, COALESCE(title, 'Untitled'), COALESCE(category, ''),
		          COALESCE(school, ''), COALESCE(course, ''), COALESCE(file_name, ''),
		          COALESCE(file_size, 0), COALESCE(storage_key, ''),
		          COALESCE(views, 0), COALESCE(downloads, 0), COALESCE(diamonds, 0),
		          COALESCE(earnings, 0), created_at
	`
)
