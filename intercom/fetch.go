package intercom

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultPageDelay spaces consecutive page requests to stay under the API
// rate limit.
const DefaultPageDelay = 100 * time.Millisecond

// API is the subset of the Intercom client used by the Fetcher.
type API interface {
	ListConversations(ctx context.Context, startingAfter string) (*ListConversationsResponse, error)
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	GetContact(ctx context.Context, id string) (*Contact, error)
}

type Fetcher struct {
	api           API
	fetchContacts bool
	pageDelay     time.Duration
}

func NewFetcher(api API, fetchContacts bool) *Fetcher {
	return &Fetcher{
		api:           api,
		fetchContacts: fetchContacts,
		pageDelay:     DefaultPageDelay,
	}
}

// WithPageDelay overrides the pause between page requests.
func (f *Fetcher) WithPageDelay(d time.Duration) *Fetcher {
	f.pageDelay = d
	return f
}

type FetchedConversation struct {
	Conversation  Conversation
	Contact       *Contact
	DetailFailed  bool
	ContactFailed bool
}

type FetchResult struct {
	Conversations      []FetchedConversation
	Pages              int
	DetailFailures     int
	ContactFailures    int
	DuplicatesRejected int
}

// ListSince pages through conversations updated at or after since. When a
// page request fails, the summaries gathered so far are returned along with
// the error.
func (f *Fetcher) ListSince(ctx context.Context, since time.Time) ([]ConversationSummary, error) {
	var summaries []ConversationSummary
	seen := make(map[string]struct{})

	_, err := f.walk(ctx, since, func(page []ConversationSummary) {
		for _, s := range page {
			if _, dup := seen[s.ID]; dup {
				continue
			}
			seen[s.ID] = struct{}{}
			summaries = append(summaries, s)
		}
	})

	return summaries, err
}

// FetchSince pages through conversations updated at or after since and loads
// the full record of each, one page at a time. A failed detail request keeps
// the listing record in its place. When a page request fails, the result
// holds everything fetched before it and the error is returned too.
func (f *Fetcher) FetchSince(ctx context.Context, since time.Time) (FetchResult, error) {
	var result FetchResult
	seen := make(map[string]struct{})

	pages, err := f.walk(ctx, since, func(page []ConversationSummary) {
		fresh := make([]ConversationSummary, 0, len(page))
		for _, s := range page {
			if _, dup := seen[s.ID]; dup {
				result.DuplicatesRejected++
				log.Warn().Str("conversation_id", s.ID).Msg("Pagination returned an already processed conversation")
				continue
			}
			seen[s.ID] = struct{}{}
			fresh = append(fresh, s)
		}

		for _, fetched := range f.fetchDetails(ctx, fresh) {
			if fetched.DetailFailed {
				result.DetailFailures++
			}
			if fetched.ContactFailed {
				result.ContactFailures++
			}
			result.Conversations = append(result.Conversations, fetched)
		}
	})
	result.Pages = pages

	log.Info().
		Int("pages", result.Pages).
		Int("conversations", len(result.Conversations)).
		Int("detail_failures", result.DetailFailures).
		Int("contact_failures", result.ContactFailures).
		Bool("truncated", err != nil).
		Msg("Fetched conversations")

	return result, err
}

func (f *Fetcher) walk(ctx context.Context, since time.Time, visit func([]ConversationSummary)) (int, error) {
	threshold := since.Unix()
	cursor := ""
	pages := 0

	for {
		if pages > 0 {
			if err := pause(ctx, f.pageDelay); err != nil {
				return pages, err
			}
		}

		resp, err := f.api.ListConversations(ctx, cursor)
		if err != nil {
			log.Error().Err(err).Int("pages", pages).Msg("Stopping pagination after failed page request")
			return pages, err
		}
		pages++

		page, crossed := splitAtThreshold(resp.Conversations, threshold)
		visit(page)

		next := resp.NextCursor()
		if crossed || next == "" {
			return pages, nil
		}
		if next == cursor {
			log.Warn().Str("cursor", cursor).Msg("Pagination cursor did not advance")
			return pages, nil
		}
		cursor = next
	}
}

// splitAtThreshold keeps the summaries updated at or after threshold. The
// feed is sorted by updated_at descending, so once one summary is older the
// walk can stop.
func splitAtThreshold(page []ConversationSummary, threshold int64) ([]ConversationSummary, bool) {
	crossed := false
	kept := make([]ConversationSummary, 0, len(page))
	for _, s := range page {
		if s.UpdatedAt < threshold {
			crossed = true
			continue
		}
		kept = append(kept, s)
	}
	return kept, crossed
}

func (f *Fetcher) fetchDetails(ctx context.Context, summaries []ConversationSummary) []FetchedConversation {
	results := make([]FetchedConversation, len(summaries))

	var g errgroup.Group
	g.SetLimit(PageSize)
	for i, summary := range summaries {
		g.Go(func() error {
			results[i] = f.fetchOne(ctx, summary)
			return nil
		})
	}
	g.Wait()

	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, summary ConversationSummary) FetchedConversation {
	detail, err := f.api.GetConversation(ctx, summary.ID)
	if err != nil {
		log.Warn().Err(err).Str("conversation_id", summary.ID).Msg("Using listing record after failed detail request")
		return FetchedConversation{Conversation: summary.Conversation(), DetailFailed: true}
	}

	if err := detail.Validate(); err != nil {
		log.Warn().Err(err).Msg("Conversation timestamps out of order")
	}

	fetched := FetchedConversation{Conversation: *detail}

	contactID := detail.ContactID()
	if !f.fetchContacts || contactID == "" {
		return fetched
	}

	contact, err := f.api.GetContact(ctx, contactID)
	if err != nil {
		log.Warn().Err(err).Str("contact_id", contactID).Msg("Continuing without contact details")
		fetched.ContactFailed = true
		return fetched
	}
	fetched.Contact = contact

	return fetched
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
