package store

const (
	createUser = `INSERT INTO users (username, email, password_hash, role)
    VALUES ($1, $2, $3, $4)
    RETURNING user_id, username, email, password_hash, role, created_at;`

	findUserByUsername = `SELECT user_id, username, email, password_hash, role, created_at
    FROM users
    WHERE username = $1;`

	findUserByID = `SELECT user_id, username, email, password_hash, role, created_at
    FROM users
    WHERE user_id = $1;`

	deleteUser = `DELETE FROM users WHERE user_id = $1;`

	saveReference = `INSERT INTO face_embeddings (user_id, embedding)
    VALUES ($1, $2)
    RETURNING id, created_at;`

	deleteReferences = `DELETE FROM face_embeddings WHERE user_id = $1;`

	countReferences = `SELECT COUNT(*) FROM face_embeddings WHERE user_id = $1;`

	allReferences = `SELECT id, user_id, embedding, created_at
    FROM face_embeddings
    ORDER BY user_id, id;`
)
