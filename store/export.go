package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/garysheng/braindump/draft"
)

// noResponse is shown in exports for unanswered questions.
const noResponse = "No response"

// Pairs returns each question with its latest response in question order.
// Unanswered questions get an empty response.
func Pairs(sess *Session) []draft.Pair {
	pairs := make([]draft.Pair, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		p := draft.Pair{Question: q.Text}
		if r, ok := q.Latest(); ok {
			p.Response = r.Transcription
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// AnsweredPairs is Pairs without the unanswered questions.
func AnsweredPairs(sess *Session) []draft.Pair {
	var pairs []draft.Pair
	for _, p := range Pairs(sess) {
		if strings.TrimSpace(p.Response) != "" {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// ExportText renders the raw transcript export of a session.
func ExportText(sess *Session) string {
	blocks := make([]string, 0, len(sess.Questions))
	for _, p := range Pairs(sess) {
		answer := p.Response
		if answer == "" {
			answer = noResponse
		}
		blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s\n", p.Question, answer))
	}
	return strings.Join(blocks, "\n")
}

// Export loads a session and renders its raw transcript export.
func (s *Store) Export(ctx context.Context, userID, sessionID string) (string, error) {
	sess, err := s.Session(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	return ExportText(sess), nil
}
