package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextMind-AI/conversation-sync/intercom"
)

func part(id, authorType, body string, createdAt int64) intercom.Part {
	return intercom.Part{
		ID:        id,
		PartType:  "comment",
		Body:      body,
		Author:    intercom.Author{Type: authorType, ID: authorType + "-1", Name: authorType},
		CreatedAt: createdAt,
	}
}

func conversation(parts ...intercom.Part) intercom.Conversation {
	return intercom.Conversation{
		ID:                "conv-1",
		CreatedAt:         100,
		UpdatedAt:         200,
		Title:             "Billing question",
		ConversationParts: intercom.PartList{ConversationParts: parts},
	}
}

func TestNormalize_NoEndUserParts(t *testing.T) {
	conv := conversation(
		part("1", intercom.AuthorAdmin, "How can I help?", 110),
		part("2", intercom.AuthorBot, "Our team replies in a day", 111),
	)

	assert.False(t, IsQualifying(conv))
	assert.Nil(t, Normalize(conv, nil))
}

func TestNormalize_OnlyBoilerplate(t *testing.T) {
	testCases := []string{
		"<p>Thank you.</p>",
		"  thank   YOU. ",
		"<p>No, thanks.</p>",
		"<p>That’s all.</p>",
	}

	for _, body := range testCases {
		t.Run(body, func(t *testing.T) {
			conv := conversation(
				part("1", intercom.AuthorAdmin, "Anything else?", 110),
				part("2", intercom.AuthorUser, body, 120),
			)

			assert.True(t, IsQualifying(conv))
			assert.Nil(t, Normalize(conv, nil))
		})
	}
}

func TestNormalize_PunctuationDifferenceIsKept(t *testing.T) {
	conv := conversation(part("1", intercom.AuthorUser, "Thank you!!", 110))

	tr := Normalize(conv, nil)

	require.NotNil(t, tr)
	assert.Equal(t, "Thank you!!", tr.Messages[0].Body)
}

func TestNormalize_KeepsOrderAndOnlyEndUsers(t *testing.T) {
	conv := conversation(
		part("1", intercom.AuthorUser, "<p>The export is broken</p>", 110),
		part("2", intercom.AuthorAdmin, "Sorry to hear that", 111),
		part("3", intercom.AuthorLead, "<p>It fails on <b>large</b> files</p>", 112),
		part("4", intercom.AuthorUser, "Thanks.", 113),
		part("5", intercom.AuthorBot, "Rate us", 114),
		part("6", intercom.AuthorUser, "", 115),
		part("7", intercom.AuthorUser, "Also the preview is slow", 116),
	)

	tr := Normalize(conv, nil)

	require.NotNil(t, tr)
	require.Len(t, tr.Messages, 3)
	assert.Equal(t, []string{"1", "3", "7"}, []string{tr.Messages[0].ID, tr.Messages[1].ID, tr.Messages[2].ID})
	for _, m := range tr.Messages {
		assert.True(t, intercom.IsEndUser(m.AuthorType))
	}
	assert.Equal(t, "It fails on large files", tr.Messages[1].Body)
	assert.Equal(t, "The export is broken\n\nIt fails on large files\n\nAlso the preview is slow", tr.Text())
	assert.Equal(t, int64(110), tr.FirstMessageAt())
	assert.Equal(t, int64(116), tr.LastMessageAt())
}

func TestNormalize_Enrichment(t *testing.T) {
	conv := conversation(part("1", intercom.AuthorUser, "Where is my invoice?", 110))
	conv.Source.URL = "https://example.com/billing"
	conv.Contacts.Contacts = []intercom.ContactRef{{ID: "contact-9"}}
	contact := &intercom.Contact{
		ID:             "contact-9",
		Location:       intercom.Location{Country: "Germany", Region: "Berlin", City: "Berlin"},
		Browser:        "firefox",
		BrowserVersion: "128.0",
		OS:             "Linux",
	}

	tr := Normalize(conv, contact)

	require.NotNil(t, tr)
	assert.Equal(t, "conv-1", tr.ConversationID)
	assert.Equal(t, "Billing question", tr.Subject)
	assert.Equal(t, "https://example.com/billing", tr.SourceURL)
	assert.Equal(t, "contact-9", tr.ContactID)
	assert.Equal(t, "Germany", tr.Country)
	assert.Equal(t, "firefox", tr.Browser)
	assert.Equal(t, "Linux", tr.OS)
}

func TestNormalize_OpeningMessageCounts(t *testing.T) {
	conv := conversation(part("2", intercom.AuthorAdmin, "Looking into it", 120))
	conv.Source = intercom.Source{
		ID:     "src",
		Body:   "<p>My card was charged twice</p>",
		Author: intercom.Author{Type: intercom.AuthorUser, ID: "u1"},
	}

	tr := Normalize(conv, nil)

	require.NotNil(t, tr)
	require.Len(t, tr.Messages, 1)
	assert.Equal(t, "src", tr.Messages[0].ID)
	assert.Equal(t, "source", tr.Messages[0].Type)
	assert.Equal(t, int64(100), tr.Messages[0].CreatedAt)
}
