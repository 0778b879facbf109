package gemini

// systemInstruction frames the model's role for single-page analysis.
const systemInstruction = "You are an educational assistant. Your job is to structure " +
	"unstructured textbook pages into database records. Always put the exercise type as the first tag."

// pagePrompt is the extraction instruction for one page image.
const pagePrompt = `Analyze this textbook/PDF page. Identify all distinct exercises or questions. For each exercise, provide:

1. A 4-WORD NAME starting with the exercise number (e.g., 'Ex 1.2 Ridge Regression', 'Problem 5 Calculate MSE', 'Q3 Prove Convergence'). Format: [Exercise Number] [Task Description]. Maximum 4 words total. ALWAYS include the exercise number as the first part of the name.

2. The type of exercise - must be EXACTLY one of: 'exercise', 'homework', or 'programming'

3. Relevant topic tags - should be specific keywords about the concepts, techniques, or topics covered.

IMPORTANT FORMATTING:
- The 'exerciseType' field should contain ONLY: 'exercise', 'homework', or 'programming'
- The 'tags' array should contain topic keywords ONLY (do NOT include the exercise type in tags)
- The exercise type will be automatically added as the first tag by the system`

// documentPrompt is the extraction instruction for a whole document.
const documentPrompt = `Analyze the provided document pages. Identify the overall course or document name.
Then, locate every distinct exercise, problem, or question.
For each exercise, do the following:
1. Extract its name/identifier.
2. Classify the exercise type. It must be one of: 'regular exercise', 'homework', 'programming', or 'exam'. This classification MUST be the first tag.
3. Generate 2-4 additional relevant tags based on the subject matter.
Return all this information in the specified JSON format.`

// pageSchema is the structured-output schema for single-page analysis.
func pageSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "A 4-word name starting with exercise number (e.g., 'Ex 1.2 Ridge Regression', 'Problem 5 Calculate MSE')",
						},
						"exerciseType": map[string]any{
							"type":        "string",
							"description": "Type of exercise - EXACTLY one of: 'exercise', 'homework', or 'programming'",
						},
						"tags": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Topic keywords only (e.g., 'ridge regression', 'regularization', 'linear algebra'). Do NOT include exercise type.",
						},
					},
					"required": []string{"name", "exerciseType", "tags"},
				},
			},
		},
	}
}

// documentSchema is the structured-output schema for whole-document
// analysis.
func documentSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"courseName": map[string]any{
				"type":        "string",
				"description": "The name of the course or document title from the provided pages.",
			},
			"exercises": map[string]any{
				"type":        "array",
				"description": "A list of all exercises found in the document.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "The title or identifier of the exercise (e.g., 'Exercise 1.1', 'Problem 3', 'Question 5a').",
						},
						"tags": map[string]any{
							"type": "array",
							"description": "A list of relevant tags. The VERY FIRST tag MUST be a classification of the exercise type from this list: " +
								"'regular exercise', 'homework', 'programming', or 'exam'. Follow this with 2-4 other relevant keywords based on the exercise content (e.g., 'calculus', 'derivatives').",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []string{"name", "tags"},
				},
			},
		},
		"required": []string{"courseName", "exercises"},
	}
}
