package models

import "fmt"

type Post struct {
	PostID     string      `json:"id"`
	Platform   string      `json:"platform"`
	URL        string      `json:"url,omitempty"`
	Influencer Influencer  `json:"influencer"`
	Content    PostContent `json:"post"`
}

type Influencer struct {
	Username  string `json:"username"`
	Followers int    `json:"followers"`
}

type PostContent struct {
	Caption    string     `json:"caption"`
	Hashtags   []string   `json:"hashtags,omitempty"`
	Engagement Engagement `json:"engagement,omitempty"`
}

type Engagement struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments,omitempty"`
	Shares   int `json:"shares,omitempty"`
}

// Validate reports the first required field missing from the post record.
// A failing post is a malformed input record, not a pipeline error.
func (p Post) Validate() error {
	if p.Platform == "" {
		return fmt.Errorf("post %q: missing platform", p.PostID)
	}
	if p.Influencer.Username == "" {
		return fmt.Errorf("post %q: missing influencer username", p.PostID)
	}
	if p.Influencer.Followers < 0 {
		return fmt.Errorf("post %q: negative follower count", p.PostID)
	}
	if p.Content.Caption == "" {
		return fmt.Errorf("post %q: missing caption", p.PostID)
	}
	return nil
}
