// patternbank maintains a durable store of inferred user-behavioral
// patterns and renders the active subset for session-start context
// injection. Each invocation is a short-lived process; concurrency safety
// comes from SQLite busy-timeout transactions and an advisory lock on the
// knowledge directory.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; absence is fine
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	Execute()
}
