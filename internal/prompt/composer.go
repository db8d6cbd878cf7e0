// ABOUTME: PromptComposer builds the system instruction and ordered context for a turn
// ABOUTME: Pure function over interview config, history, and the incoming message

package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/tucoach/interview-gateway/internal/store"
)

// systemTemplate establishes interviewer behavior. Role and seniority come
// from the conversation's configuration record; everything else is fixed.
const systemTemplate = `## Context
You are a senior software engineer that is performing a mock interview for a candidate, so that they can train and improve their skills for a real interview.

## Job description
- Role: {{.Role}}
- Seniority: {{.Seniority}}
- Mandatory tech stack: java, sql, spring framework

## Interview structure
- Start by asking questions about the candidate's background and experience.
- Continue asking questions about mandatory skills, adjust difficulty as needed.
- Next, ask questions about optional skills.
- Think if the candidate passed or not passed the interview.
- At the end, present a summary to the candidate with your final assessment and all feedback and recommendations.

## Guidelines
- Ask only one question at a time.
`

var systemTmpl = template.Must(template.New("system").Parse(systemTemplate))

// Message is one context entry in the shape the completion client expects.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Context is the fully composed input for one completion call: the system
// instruction, all prior turns in order, and the new user message last.
type Context struct {
	System   string
	Messages []Message
}

// Compose builds the completion context for one turn. It is deterministic
// given identical inputs and performs no I/O.
func Compose(interview *store.Interview, history []*store.Turn, incoming string) (*Context, error) {
	var sb strings.Builder
	if err := systemTmpl.Execute(&sb, interview); err != nil {
		return nil, fmt.Errorf("rendering system instruction: %w", err)
	}

	messages := make([]Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, Message{
		Role:    store.TurnRoleUser,
		Content: incoming,
	})

	return &Context{
		System:   sb.String(),
		Messages: messages,
	}, nil
}
