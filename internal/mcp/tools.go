package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the StudyDeck MCP server.

const subjectDescription = "Subject: maths, physics or chemistry (abbreviations like chem are accepted)"

// progressTool returns the studydeck_progress tool definition.
func progressTool() mcp.Tool {
	return mcp.NewTool("studydeck_progress",
		mcp.WithDescription("Get weighted syllabus completion. Each topic counts a fifth of its weight for every ticked box among theory, questions and three revisions."),
		mcp.WithString("subject",
			mcp.Description(subjectDescription+". Omit for all three subjects."),
		),
		mcp.WithBoolean("topics",
			mcp.Description("Include every topic with its checklist (default: false)"),
		),
	)
}

// listQuestionsTool returns the studydeck_list_questions tool definition.
func listQuestionsTool() mcp.Tool {
	return mcp.NewTool("studydeck_list_questions",
		mcp.WithDescription("List logged practice questions for a subject, newest first."),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description(subjectDescription),
		),
		mcp.WithString("status",
			mcp.Description("Only return entries with this status: Not Started, In Progress or Completed"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 50, max: 200)"),
		),
	)
}

// addQuestionTool returns the studydeck_add_question tool definition.
func addQuestionTool() mcp.Tool {
	return mcp.NewTool("studydeck_add_question",
		mcp.WithDescription("Log a practice question for a subject."),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description(subjectDescription),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Short name of the question"),
		),
		mcp.WithString("status",
			mcp.Description("Initial status: Not Started, In Progress or Completed (default: Not Started)"),
		),
		mcp.WithString("link",
			mcp.Description("URL of the question"),
		),
		mcp.WithString("doubts",
			mcp.Description("Open doubts about the question"),
		),
	)
}

// cycleQuestionTool returns the studydeck_cycle_question tool definition.
func cycleQuestionTool() mcp.Tool {
	return mcp.NewTool("studydeck_cycle_question",
		mcp.WithDescription("Advance a question's status: Not Started -> In Progress -> Completed -> Not Started."),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description(subjectDescription),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The question id as returned by studydeck_list_questions"),
		),
	)
}

// listActivitiesTool returns the studydeck_list_activities tool definition.
func listActivitiesTool() mcp.Tool {
	return mcp.NewTool("studydeck_list_activities",
		mcp.WithDescription("List logged study activities for a subject, newest first."),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description(subjectDescription),
		),
		mcp.WithString("status",
			mcp.Description("Only return entries with this status: Not Started, In Progress or Completed"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 50, max: 200)"),
		),
	)
}

// studyTimeTool returns the studydeck_study_time tool definition.
func studyTimeTool() mcp.Tool {
	return mcp.NewTool("studydeck_study_time",
		mcp.WithDescription("Get recorded study time per day, including today."),
		mcp.WithNumber("days",
			mcp.Description("Number of days to cover, ending today (default: 7, max: 90)"),
		),
	)
}

// listNotesTool returns the studydeck_list_notes tool definition.
func listNotesTool() mcp.Tool {
	return mcp.NewTool("studydeck_list_notes",
		mcp.WithDescription("List directories and markdown or text files in the user's GitHub notes repository."),
		mcp.WithString("path",
			mcp.Description("Directory inside the repository (default: the root)"),
		),
	)
}
