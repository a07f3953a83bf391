package models

type Prompt struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Content          string   `json:"content"`
	RequiredElements []string `json:"required_elements"`
}
