package dto

type CreatePostRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
	Title    string `json:"title" validate:"required,max=100"`
	Body     string `json:"body" validate:"required,max=150000"`
}

type UpdatePostRequest struct {
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
	Title    *string `json:"title" validate:"omitempty,max=100"`
	Body     *string `json:"body" validate:"omitempty,max=150000"`
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=150000"`
}

type UpdateCommentRequest struct {
	Body     *string `json:"body" validate:"omitempty,max=150000"`
	Disabled *bool   `json:"disabled"`
}
