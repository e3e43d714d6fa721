package authz

// BoardRef is the ownership view of a board.
type BoardRef struct {
	BoardID  string
	Slug     string
	OwnerID  string
	IsPublic bool
}

// FeedbackChain resolves feedback → board → owner in one query.
type FeedbackChain struct {
	FeedbackID    string
	IsApproved    bool
	BoardID       string
	BoardSlug     string
	BoardIsPublic bool
	OwnerID       string
}

// CommentChain resolves comment → feedback → board → owner in one query.
type CommentChain struct {
	CommentID          string
	AuthorEmail        string
	FeedbackID         string
	FeedbackIsApproved bool
	BoardID            string
	BoardSlug          string
	BoardIsPublic      bool
	OwnerID            string
}

func (c *CommentChain) Feedback() *FeedbackChain {
	return &FeedbackChain{
		FeedbackID:    c.FeedbackID,
		IsApproved:    c.FeedbackIsApproved,
		BoardID:       c.BoardID,
		BoardSlug:     c.BoardSlug,
		BoardIsPublic: c.BoardIsPublic,
		OwnerID:       c.OwnerID,
	}
}
