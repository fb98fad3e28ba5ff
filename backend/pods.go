package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Pod is a rotating savings group the member belongs to.
type Pod struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	ContributionAmount int64      `json:"contribution_amount"` // minor units
	Currency           string     `json:"currency"`
	Frequency          string     `json:"frequency"`
	MemberCount        int        `json:"member_count"`
	Position           int        `json:"position"`
	NextPayoutAt       *time.Time `json:"next_payout_at,omitempty"`
	Status             string     `json:"status"`
}

type podsResponse struct {
	Pods []Pod `json:"pods"`
}

// Pods lists the member's pods.
func (c *Client) Pods(ctx context.Context, token string) ([]Pod, error) {
	var resp podsResponse
	if err := c.doAuthorised(ctx, token, http.MethodGet, "/pods", nil, &resp); err != nil {
		return nil, fmt.Errorf("[backend Pods] %w", err)
	}
	return resp.Pods, nil
}
