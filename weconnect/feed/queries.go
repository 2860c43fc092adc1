package feed

const (
	queryCreatePost = `
		INSERT INTO feed_posts (id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, body, created_at
	`

	queryListRecent = `
		SELECT
			p.id,
			p.author_id,
			COALESCE(u.display_name, '') AS author_name,
			p.body,
			(SELECT COUNT(*) FROM feed_likes l WHERE l.post_id = p.id) AS likes,
			p.created_at
		FROM feed_posts p
		LEFT JOIN profiles u ON u.id = p.author_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`

	queryCountPosts = `
		SELECT COUNT(*) FROM feed_posts
	`

	queryLikePost = `
		INSERT INTO feed_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`

	queryPostExists = `
		SELECT EXISTS (SELECT 1 FROM feed_posts WHERE id = $1)
	`

	queryDeletePost = `
		DELETE FROM feed_posts
		WHERE id = $1 AND author_id = $2
	`
)
