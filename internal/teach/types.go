package teach

// ExplainInput asks for a classroom-ready explanation of a concept.
type ExplainInput struct {
	// Question is the concept or question to explain.
	Question string `json:"question"`

	// Language is the language the explanation should be written in.
	Language string `json:"language"`
}

// Explanation is a concept explanation with a relatable analogy.
type Explanation struct {
	Explanation string `json:"explanation"`
	Analogy     string `json:"analogy"`
}

// StoryInput asks for a short educational story.
type StoryInput struct {
	Language string `json:"language"`
	Topic    string `json:"topic"`
}

// Story is a generated educational story.
type Story struct {
	Story string `json:"story"`
}

// VisualAidInput asks for a simple instructional image.
type VisualAidInput struct {
	// Description is what the image should depict.
	Description string `json:"description"`
}

// VisualAid carries a generated image as a data URI, ready for direct
// embedding without a separate media fetch.
type VisualAid struct {
	VisualAid string `json:"visualAid"`
}
