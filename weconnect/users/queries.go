package users

const (
	queryFindOrCreateByProvider = `
		INSERT INTO profiles (provider, provider_id, email, display_name, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, email, provider, provider_id, display_name, COALESCE(school, ''), COALESCE(course, ''), avatar_url, created_at, updated_at
	`

	queryFindByID = `
		SELECT id, email, provider, provider_id, display_name, COALESCE(school, ''), COALESCE(course, ''), avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	queryUpdateProfile = `
		UPDATE profiles
		SET display_name = $1, school = $2, course = $3, avatar_url = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, email, provider, provider_id, display_name, COALESCE(school, ''), COALESCE(course, ''), avatar_url, created_at, updated_at
	`
)
