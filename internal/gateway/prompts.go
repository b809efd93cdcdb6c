package gateway

import (
	"fmt"
	"strings"

	"github.com/sahayak-ai/sahayak/internal/model"
)

func buildContentPrompt(topic string, gradeLevel int, language string, format model.ContentFormat) string {
	var sb strings.Builder
	sb.WriteString("You are an expert teacher specializing in creating localized teaching content.\n\n")
	sb.WriteString("Generate teaching content in the specified language, for the specified grade level, and in the specified format.\n\n")
	fmt.Fprintf(&sb, "Language: %s\n", language)
	fmt.Fprintf(&sb, "Grade Level: %d\n", gradeLevel)
	fmt.Fprintf(&sb, "Format: %s\n", format)
	fmt.Fprintf(&sb, "Topic: %s\n", topic)
	return sb.String()
}

func buildQuizPrompt(topic string, gradeLevel int, language string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert teacher creating an interactive quiz. ")
	sb.WriteString("Generate a series of 3-5 multiple-choice questions on the given topic, suitable for the specified grade level and language.\n\n")
	sb.WriteString("For each question, provide:\n")
	sb.WriteString("1. The question text.\n")
	sb.WriteString("2. Exactly four possible answer options.\n")
	sb.WriteString("3. The correct answer, which must be one of the four options.\n\n")
	fmt.Fprintf(&sb, "Language: %s\n", language)
	fmt.Fprintf(&sb, "Grade Level: %d\n", gradeLevel)
	fmt.Fprintf(&sb, "Topic: %s\n", topic)
	return sb.String()
}

func buildSlidesPrompt(topic string, gradeLevel int, language string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert teacher creating a slideshow presentation. ")
	sb.WriteString("Break down the given topic into a series of 3 to 5 slides for the specified grade level and language.\n\n")
	sb.WriteString("For each slide, provide:\n")
	sb.WriteString("1. Concise text content that explains a part of the topic.\n")
	sb.WriteString("2. A detailed prompt for an AI image generator to create a relevant visual aid.\n\n")
	fmt.Fprintf(&sb, "Language: %s\n", language)
	fmt.Fprintf(&sb, "Grade Level: %d\n", gradeLevel)
	fmt.Fprintf(&sb, "Topic: %s\n", topic)
	return sb.String()
}

func buildGradingPrompt(question string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful and encouraging teaching assistant. ")
	fmt.Fprintf(&sb, "A student was asked the following question: '%s'.\n\n", question)
	sb.WriteString("They provided the attached drawing as their answer. Analyze their drawing.\n\n")
	sb.WriteString("1. Determine if the drawing correctly answers the question. Consider whether the key components are present and correctly represented.\n")
	sb.WriteString("2. Provide brief, constructive, and encouraging feedback. If they are incorrect, gently guide them towards the right answer. ")
	sb.WriteString("If they are correct, praise their work and perhaps suggest a small improvement or an extension thought.\n")
	return sb.String()
}

func buildImprovePrompt(prompt string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert in crafting effective teaching content prompts. ")
	sb.WriteString("Your goal is to help a teacher create a more specific, detailed, and pedagogically sound request for an AI.\n\n")
	sb.WriteString("Given the following prompt, provide a list of 3-4 concrete suggestions for improvement to get better, more detailed, ")
	sb.WriteString("and more curriculum-aligned results. Focus on adding specificity, mentioning formats, asking for real-world examples, ")
	sb.WriteString("and aligning with curriculum standards like CBSE.\n\n")
	fmt.Fprintf(&sb, "Prompt: %s\n", prompt)
	return sb.String()
}

func buildLessonPlanPrompt(prompt string, hasPhoto bool) string {
	var sb strings.Builder
	sb.WriteString("You are an expert curriculum designer and AI teaching assistant with deep pedagogical knowledge, ")
	sb.WriteString("specializing in the CBSE curriculum used in India. Create exceptionally detailed, engaging, and age-appropriate ")
	sb.WriteString("lesson plans that go beyond basic outlines. Your plans should feel like they were crafted by a master teacher.\n\n")
	sb.WriteString("Core instructions:\n\n")
	sb.WriteString("1. Analyze the request: identify the core topic(s), target grade level(s), and any specified languages or formats. ")
	sb.WriteString("If a language is specified, all generated content must be in that language.\n\n")
	sb.WriteString("2. Emulate CBSE standards: content must reflect the depth and structure of the CBSE curriculum, ")
	sb.WriteString("with terminology, examples, and structured exercises familiar to a student in that system.\n\n")
	sb.WriteString("3. Generate rich, detailed content for each activity:\n")
	sb.WriteString("   - story: a complete narrative of at least 300 words that weaves in the educational concepts.\n")
	sb.WriteString("   - worksheet: a multi-part worksheet with fill-in-the-blanks, multiple choice, short answers, and matching exercises.\n")
	sb.WriteString("   - explanation: a thorough explanation starting with a simple analogy, broken into digestible parts with clear headings.\n")
	sb.WriteString("   - drawing activity: a very specific prompt encouraging detailed explanatory drawing, in the content field.\n")
	sb.WriteString("   - quiz: a challenging 3-5 question multiple-choice quiz with plausible distractors.\n")
	sb.WriteString("   - visual aid: 3-5 slides, each with concise text and a highly detailed imagePrompt for an AI image generator.\n\n")
	if hasPhoto {
		sb.WriteString("4. An image has been provided. Analyze it carefully. If it is a textbook page, use its specific content, diagrams, ")
		sb.WriteString("and key terms as the primary source for the lesson plan. If it is an object or scene, build the lesson around it.\n\n")
	}
	sb.WriteString("For each grade level identified, create a tailored lesson plan with 2-4 diverse and complementary activities.\n\n")
	fmt.Fprintf(&sb, "Teacher's request: %q\n", prompt)
	return sb.String()
}
