package index

import "fmt"

// InvalidQueryError reports an empty or otherwise unusable search query. It
// is recoverable: the caller corrects the query and retries. Query-time
// errors never touch index state.
type InvalidQueryError struct {
	// Query is the rejected input.
	Query string

	// Reason describes why it was rejected.
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Reason)
}
