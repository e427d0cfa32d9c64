package auth

// Scopes understood by the exercise API.
const (
	ScopeExercisesRead  = "exercises:read"
	ScopeExercisesWrite = "exercises:write"
)
