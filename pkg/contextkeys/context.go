package contextkeys

// Custom key type to avoid collisions with other context users.
type contextKey string

// DBContextKey is the key under which middleware stores the *gorm.DB
// handle (the pool, or a test transaction) for the request.
const DBContextKey = contextKey("db")
