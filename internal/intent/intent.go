// Package intent parses natural-language queries into structured command
// intents. The pattern tier here is the fast path; queries it cannot match
// are handed to an LLM provider by the generator.
package intent

import (
	"strings"

	"github.com/ychenfen/shellgpt/internal/command"
)

// Intent is the structured form of a user query.
type Intent struct {
	// Action is the operation to perform ("list", "git_commit", ...).
	Action string
	// Target is the object of the action, when one could be extracted.
	Target string
	// Params holds additional parameters, including pattern defaults.
	Params map[string]string
	// ContextNeeded lists the context facts relevant to this action.
	ContextNeeded []string
}

// Match tries to parse the query with the builtin pattern table.
// Returns nil when no pattern matches and the provider should take over.
func Match(query string) *Intent {
	lowered := strings.ToLower(strings.TrimSpace(query))

	for _, qp := range queryPatterns {
		for _, re := range qp.patterns {
			if !re.MatchString(lowered) {
				continue
			}
			params := make(map[string]string, len(qp.defaultParams))
			for k, v := range qp.defaultParams {
				params[k] = v
			}
			return &Intent{
				Action:        qp.action,
				Target:        extractTarget(lowered),
				Params:        params,
				ContextNeeded: qp.contextNeeded,
			}
		}
	}
	return nil
}

// extractTarget pulls a likely target out of the query: the word following
// "file", "directory", etc. Deliberately simple.
func extractTarget(query string) string {
	words := strings.Fields(query)
	for i, word := range words {
		switch word {
		case "file", "directory", "folder", "repo", "branch":
			if i+1 < len(words) {
				return words[i+1]
			}
		}
	}
	return ""
}

// Template returns the command template for an action on the given OS, or
// "" when the table has none (unknown action, or package-manager-keyed
// templates that need provider help).
func Template(action, osName string) string {
	qp, ok := patternByAction(action)
	if !ok {
		return ""
	}
	switch strings.ToLower(osName) {
	case "linux", "darwin":
		return qp.templates["unix"]
	case "windows":
		return qp.templates["windows"]
	default:
		if t := qp.templates["unix"]; t != "" {
			return t
		}
		return qp.templates["windows"]
	}
}

// Fill substitutes template placeholders from the intent and context.
// Unknown placeholders are left in place.
func Fill(template string, in *Intent, ctx command.SystemContext) string {
	target := in.Target
	if target == "" {
		target = "."
	}
	message := in.Params["message"]
	if message == "" {
		message = "Update"
	}
	branch := ctx.GitBranch
	if branch == "" {
		branch = "main"
	}

	substitutions := map[string]string{
		"target":  target,
		"source":  in.Params["source"],
		"message": message,
		"branch":  branch,
		"package": in.Target,
		"pattern": in.Target,
		"file":    in.Target,
		"path":    target,
		"url":     in.Target,
		"pid":     in.Target,
	}

	result := template
	for key, value := range substitutions {
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}
	return result
}

// CommandType maps an action to its command category.
func CommandType(action string) command.Type {
	switch {
	case strings.HasPrefix(action, "git_"):
		return command.TypeGitCommand
	case action == "list" || action == "list_python" || action == "create_directory" ||
		action == "remove_file" || action == "copy_file" || action == "move_file":
		return command.TypeFileOperation
	case action == "system_info" || action == "disk_usage" || action == "memory_usage":
		return command.TypeSystemInfo
	case action == "list_processes" || action == "kill_process":
		return command.TypeProcessManagement
	case action == "ping" || action == "curl_get":
		return command.TypeNetworkOperation
	case action == "install_package" || action == "uninstall_package":
		return command.TypePackageManagement
	default:
		return command.TypeCustom
	}
}

var actionExplanations = map[string]string{
	"list":              "List files and directories",
	"list_python":       "Find all Python files in the current directory and subdirectories",
	"create_directory":  "Create a new directory",
	"remove_file":       "Delete a file",
	"copy_file":         "Copy a file to another location",
	"move_file":         "Move or rename a file",
	"git_status":        "Show the current status of the Git repository",
	"git_add_all":       "Stage all changes for the next commit",
	"git_commit":        "Create a new commit with staged changes",
	"git_push":          "Upload local commits to the remote repository",
	"git_pull":          "Download and merge changes from the remote repository",
	"git_log":           "Show recent commit history",
	"system_info":       "Display system information",
	"disk_usage":        "Show disk space usage",
	"memory_usage":      "Display memory usage information",
	"list_processes":    "List all running processes",
	"kill_process":      "Terminate a running process",
	"ping":              "Test network connectivity to a host",
	"curl_get":          "Download or fetch content from a URL",
	"install_package":   "Install a software package",
	"uninstall_package": "Remove a software package",
	"search_text":       "Search for text patterns in files",
	"count_lines":       "Count the number of lines in a file",
}

// Explanation builds a human-readable explanation for the intent.
func Explanation(in *Intent) string {
	base, ok := actionExplanations[in.Action]
	if !ok {
		base = "Execute " + in.Action
	}
	if in.Target != "" {
		return base + ": " + in.Target
	}
	return base
}
