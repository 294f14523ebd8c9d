package queries

import "errors"

// GetChainCommentsQuery lists a chain's comments, oldest first
type GetChainCommentsQuery struct {
	ProjectID string
	ChainID   string
}

// Validate validates the GetChainCommentsQuery
func (q GetChainCommentsQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if q.ChainID == "" {
		return errors.New("chain ID is required")
	}
	return nil
}

// CommentView is the read model of one chain comment
type CommentView struct {
	ID        string `json:"id"`
	ChainID   string `json:"chainId"`
	AuthorID  string `json:"authorId"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

// CommentList is the result of GetChainCommentsQuery
type CommentList struct {
	ChainID  string        `json:"chainId"`
	Comments []CommentView `json:"comments"`
}
