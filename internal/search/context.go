package search

import (
	"fmt"
	"strings"

	"github.com/askdocs/knowledgebase/internal/vectorstore"
)

const contextHeader = "Based on the following documents:\n\n"

// BuildContext renders ranked matches into the context block handed to the
// chat model: one numbered section per match with its file name, similarity
// to two decimal places, and verbatim chunk text, blank-line separated.
func BuildContext(matches []vectorstore.Match) string {
	var sb strings.Builder
	sb.WriteString(contextHeader)
	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("Document %d (%s, similarity: %.2f):\n%s\n\n",
			i+1, m.FileName, m.Similarity, m.Text))
	}
	return sb.String()
}
