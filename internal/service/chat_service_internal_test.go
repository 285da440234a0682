package service

import (
	"strings"
	"testing"
	"time"

	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"
	"ai-research-chat-be/pkg/citation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageToDTOCarriesStructuredContent(t *testing.T) {
	structured := citation.StructuredContent{
		Segments: []citation.Segment{
			{Kind: citation.SegmentText, Text: "Loss provisions apply per "},
			{Kind: citation.SegmentCitation, Citation: &citation.Parsed{
				Ordinal:  1,
				SourceID: "doc42",
				Resolved: true,
				Source:   &citation.SourceEntry{ID: "doc42", Title: "Loss Provisions Act", Kind: citation.KindRegulation},
			}},
			{Kind: citation.SegmentText, Text: "."},
		},
		Citations: []citation.Parsed{{
			Ordinal:  1,
			SourceID: "doc42",
			Resolved: true,
			Source:   &citation.SourceEntry{ID: "doc42", Title: "Loss Provisions Act", Kind: citation.KindRegulation},
		}},
		CleanText: "Loss provisions apply per .",
	}

	msg := &chat.Message{
		Id:         uuid.New(),
		SessionKey: uuid.New(),
		Domain:     chatdomain.DomainLegal,
		Role:       chat.RoleAssistant,
		Chat:       structured.CleanText,
		Raw:        `Loss provisions apply per source(doc42).`,
		Structured: &structured,
		CreatedAt:  time.Now(),
	}

	out := messageToDTO(msg)

	assert.Equal(t, msg.Id, out.Id)
	assert.Equal(t, "Loss provisions apply per .", out.CleanText)
	require.Len(t, out.Segments, 3)
	assert.Equal(t, "citation", out.Segments[1].Kind)
	require.NotNil(t, out.Segments[1].Citation)
	assert.Equal(t, "doc42", out.Segments[1].Citation.SourceId)
	assert.Equal(t, "Loss Provisions Act", out.Segments[1].Citation.Title)
	require.Len(t, out.Citations, 1)
	assert.Equal(t, 1, out.Citations[0].Ordinal)
	assert.True(t, out.Citations[0].Resolved)
}

func TestMessageToDTOPlainUserMessage(t *testing.T) {
	msg := &chat.Message{
		Id:        uuid.New(),
		Role:      chat.RoleUser,
		Chat:      "what about doc42?",
		CreatedAt: time.Now(),
	}

	out := messageToDTO(msg)

	assert.Equal(t, "what about doc42?", out.Chat)
	assert.Empty(t, out.CleanText)
	assert.Nil(t, out.Segments)
	assert.Nil(t, out.Citations)
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "short question", truncateTitle("  short question  ", 80))

	long := strings.Repeat("a", 100)
	got := truncateTitle(long, 80)
	assert.Equal(t, 80, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}
