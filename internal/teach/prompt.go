package teach

import (
	"fmt"
	"strings"
)

const explainSystemPrompt = `You are a teaching assistant for teachers in under-resourced, multi-grade classrooms. Explain concepts in simple language a teacher can repeat to students directly, and always include one analogy from everyday local life (farming, cooking, markets, weather).`

func buildExplainUserMessage(input ExplainInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Question: %s\n", input.Question))
	b.WriteString(fmt.Sprintf("Language: %s\n", input.Language))

	b.WriteString(`
Instructions:
1. Explain the concept in 4-8 short sentences in the requested language.
2. Use vocabulary a rural primary or middle school student would know.
3. Provide one analogy from daily village or household life that makes the idea concrete.
4. Do not use technical jargon without immediately explaining it.`)

	return b.String()
}

const storySystemPrompt = `You are a storyteller for teachers in multi-grade classrooms. You write short, culturally relevant stories that teach a specific topic through characters and events children recognize from their own lives.`

func buildStoryUserMessage(input StoryInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic))
	b.WriteString(fmt.Sprintf("Language: %s\n", input.Language))

	b.WriteString(`
Instructions:
1. Write a story of 200-400 words in the requested language.
2. Set it in a context familiar to children in rural or small-town India.
3. The story must teach the topic through what happens, not through a lecture.
4. End with a one-sentence takeaway a teacher can write on the blackboard.`)

	return b.String()
}

func buildVisualAidPrompt(input VisualAidInput) string {
	return fmt.Sprintf(
		"A simple black-and-white line drawing suitable for copying onto a classroom blackboard: %s. Use thick, clear lines, large labels, and no shading or fine detail.",
		input.Description,
	)
}
