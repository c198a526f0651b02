package transcript

import (
	"github.com/NextMind-AI/conversation-sync/intercom"
)

// IsQualifying reports whether at least one part was written by the customer.
func IsQualifying(conv intercom.Conversation) bool {
	for _, part := range conv.Parts() {
		if intercom.IsEndUser(part.Author.Type) {
			return true
		}
	}
	return false
}

// Normalize builds the transcript of a conversation from its customer-authored
// parts, dropping boilerplate and empty messages. It returns nil when nothing
// is left.
func Normalize(conv intercom.Conversation, contact *intercom.Contact) *Transcript {
	var messages []Message

	for _, part := range conv.Parts() {
		if !intercom.IsEndUser(part.Author.Type) {
			continue
		}

		body := CleanBody(part.Body)
		if body == "" || IsBoilerplate(body) {
			continue
		}

		messages = append(messages, Message{
			ID:         part.ID,
			Type:       part.PartType,
			Body:       body,
			AuthorType: part.Author.Type,
			AuthorID:   part.Author.ID,
			AuthorName: part.Author.Name,
			CreatedAt:  part.CreatedAt,
		})
	}

	if len(messages) == 0 {
		return nil
	}

	t := &Transcript{
		ConversationID: conv.ID,
		CreatedAt:      conv.CreatedAt,
		UpdatedAt:      conv.UpdatedAt,
		Subject:        CleanBody(conv.Subject()),
		SourceURL:      conv.Source.URL,
		ContactID:      conv.ContactID(),
		Messages:       messages,
	}

	if contact != nil {
		t.Country = contact.Location.Country
		t.Region = contact.Location.Region
		t.City = contact.Location.City
		t.Browser = contact.Browser
		t.BrowserVersion = contact.BrowserVersion
		t.OS = contact.OS
	}

	return t
}
