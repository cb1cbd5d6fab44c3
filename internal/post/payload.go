package post

type CreatePostRequest struct {
	Content           string   `json:"content"`
	ImageURL          string   `json:"image_url"`
	PollOptions       []string `json:"poll_options"`
	PollDurationHours int      `json:"poll_duration_hours"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}
