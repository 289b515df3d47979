package models

import (
	"encoding/json"
	"fmt"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// MessageStatus tracks a message through sending, streaming and a final
// complete or error state.
type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusStreaming MessageStatus = "streaming"
	StatusComplete  MessageStatus = "complete"
	StatusError     MessageStatus = "error"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case StatusSending, StatusStreaming, StatusComplete, StatusError:
		return true
	}
	return false
}

// Source is a citation attached to an assistant message.
type Source struct {
	CitationID     string   `json:"citation_id"`
	SourceType     string   `json:"source_type"`
	Title          string   `json:"title"`
	Excerpt        string   `json:"excerpt"`
	DocumentID     *string  `json:"document_id,omitempty"`
	PageNumber     *int     `json:"page_number,omitempty"`
	Section        *string  `json:"section,omitempty"`
	URL            *string  `json:"url,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

// EncodeSources returns the column value for a message's sources; an empty
// list is stored as NULL.
func EncodeSources(src []Source) (*string, error) {
	if len(src) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sources: %w", err)
	}
	s := string(b)
	return &s, nil
}

func DecodeSources(col *string) ([]Source, error) {
	if col == nil || *col == "" {
		return nil, nil
	}
	var src []Source
	if err := json.Unmarshal([]byte(*col), &src); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	return src, nil
}
