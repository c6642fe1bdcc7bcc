package contextbuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/acampora/minerva/internal/domain"
	"github.com/acampora/minerva/internal/observability"
)

const retrievalTemplate = `You are a polite and helpful teaching assistant for a Data Science course.

Use the following past conversation memory to answer the current question:

%s

Now answer this: %s
`

// BuildPromptWithRetrievedContext asks the retriever for the topK past
// exchanges most similar to the query, drops any result containing one of
// the filter phrases (case-insensitive substring match), joins the
// survivors with blank lines, and interpolates them with the query into the
// instructional template.
//
// Fail-open: if the retriever errors, the bare query is returned unchanged.
// Context degradation is never a hard failure.
func BuildPromptWithRetrievedContext(
	ctx context.Context,
	query string,
	retriever domain.Retriever,
	topK int,
	filterPhrases []string,
) string {
	docs, err := retriever.Retrieve(ctx, query, topK)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("retriever failed, degrading to bare query", "error", err)
		return query
	}

	var kept []string
	for _, doc := range docs {
		if doc == "" || containsAnyFold(doc, filterPhrases) {
			continue
		}
		kept = append(kept, doc)
	}

	return fmt.Sprintf(retrievalTemplate, strings.Join(kept, "\n\n"), query)
}

func containsAnyFold(doc string, phrases []string) bool {
	lowered := strings.ToLower(doc)
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// RetrievalStrategy augments each query with semantically similar past
// exchanges and sends the result as a single user message, the way the
// completion endpoint receives it in retrieval mode.
type RetrievalStrategy struct {
	Retriever     domain.Retriever
	TopK          int
	FilterPhrases []string
}

func (s RetrievalStrategy) BuildMessages(ctx context.Context, history []*domain.Turn, query string) []domain.Message {
	prompt := BuildPromptWithRetrievedContext(ctx, query, s.Retriever, s.TopK, s.FilterPhrases)
	return []domain.Message{{Role: domain.RoleUser, Content: prompt}}
}
