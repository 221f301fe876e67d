package domain

// Mood is an entry of the mood picker.
type Mood struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Emoji string `json:"emoji" yaml:"emoji"`
}

// VerseSuggestion is one recommended passage.
type VerseSuggestion struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// RecommendRequest asks for passages matching how the user feels.
type RecommendRequest struct {
	Mood    string `json:"mood" validate:"required"`
	Thought string `json:"thought"`
}
