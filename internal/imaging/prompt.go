package imaging

import "fmt"

// promptTemplate holds the per-category pieces of an agent instruction.
// intro names the artifact kind, focus lists what to look at, and
// defaultAsk is used when the user supplied no caption.
type promptTemplate struct {
	intro      string
	focus      string
	defaultAsk string
}

var promptTemplates = map[Category]promptTemplate{
	CategoryScreenshot: {
		intro: "I'm sharing a screenshot with you.",
		focus: `Please analyze the screenshot and help me with:
1. Identifying what application or website this is from
2. Understanding the UI elements and their purpose
3. Any issues or improvements you notice`,
		defaultAsk: "Describe what you see in the screenshot.",
	},
	CategoryDiagram: {
		intro: "I'm sharing a diagram with you.",
		focus: `Please help me:
1. Understand the components and their relationships
2. Identify the type of diagram (flowchart, architecture, etc.)
3. Explain any technical concepts shown`,
		defaultAsk: "Explain the diagram's components and how they relate.",
	},
	CategoryUIMockup: {
		intro: "I'm sharing a UI mockup with you.",
		focus: `Please analyze:
1. The layout and visual hierarchy
2. User experience and accessibility considerations
3. Implementation suggestions`,
		defaultAsk: "Review the mockup and suggest improvements.",
	},
	CategoryGeneric: {
		intro:      "I'm sharing an image with you.",
		focus:      "Please analyze it and provide relevant insights.",
		defaultAsk: "Describe what you see.",
	},
}

// ComposePrompt renders the instruction text for the given category,
// referencing the staged file path. Template selection is a pure function
// of category; unknown categories use the generic template. When a caption
// is present it is appended verbatim as the user's specific request,
// otherwise the category default ask is used.
func ComposePrompt(category Category, caption Caption, stagedPath string) string {
	tpl, ok := promptTemplates[category]
	if !ok {
		tpl = promptTemplates[CategoryGeneric]
	}

	ask := tpl.defaultAsk
	if caption.Valid {
		ask = "Specific request: " + caption.Text
	}

	return fmt.Sprintf(`%s The image is saved at: %s

IMPORTANT: Read the image file at that path directly. Do not explore
unrelated files or directories.

%s

%s

Keep the response concise and focused.`, tpl.intro, stagedPath, tpl.focus, ask)
}
