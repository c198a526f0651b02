package caplena

const (
	TypeTextToAnalyze = "text_to_analyze"
	TypeText          = "text"
	TypeNumerical     = "numerical"
)

const (
	ColumnText           = "text"
	ColumnConversationID = "conversation_id"
	ColumnSubject        = "subject"
	ColumnCreatedAt      = "created_at"
	ColumnUpdatedAt      = "updated_at"
	ColumnFirstMessageAt = "first_message_at"
	ColumnLastMessageAt  = "last_message_at"
	ColumnMessageCount   = "message_count"
	ColumnSourceURL      = "source_url"
	ColumnCountry        = "country"
	ColumnRegion         = "region"
	ColumnCity           = "city"
	ColumnBrowser        = "browser"
	ColumnBrowserVersion = "browser_version"
	ColumnOS             = "os"
	ColumnContactID      = "contact_id"
)

// ProjectSchema is the column layout of projects created for conversation
// exports: the text to analyze plus conversation metadata.
var ProjectSchema = []ColumnDefinition{
	{Ref: ColumnText, Name: "Customer messages", Type: TypeTextToAnalyze},
	{Ref: ColumnConversationID, Name: "Conversation ID", Type: TypeText},
	{Ref: ColumnSubject, Name: "Subject", Type: TypeText},
	{Ref: ColumnCreatedAt, Name: "Created at", Type: TypeText},
	{Ref: ColumnUpdatedAt, Name: "Updated at", Type: TypeText},
	{Ref: ColumnFirstMessageAt, Name: "First message at", Type: TypeText},
	{Ref: ColumnLastMessageAt, Name: "Last message at", Type: TypeText},
	{Ref: ColumnMessageCount, Name: "Message count", Type: TypeNumerical},
	{Ref: ColumnSourceURL, Name: "Source URL", Type: TypeText},
	{Ref: ColumnCountry, Name: "Country", Type: TypeText},
	{Ref: ColumnRegion, Name: "Region", Type: TypeText},
	{Ref: ColumnCity, Name: "City", Type: TypeText},
	{Ref: ColumnBrowser, Name: "Browser", Type: TypeText},
	{Ref: ColumnBrowserVersion, Name: "Browser version", Type: TypeText},
	{Ref: ColumnOS, Name: "Operating system", Type: TypeText},
	{Ref: ColumnContactID, Name: "Contact ID", Type: TypeText},
}
